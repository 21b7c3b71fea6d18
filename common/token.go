// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package common

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// TokenDecimals is the number of fractional digits of one STAR.
const TokenDecimals = 18

// TokenPrecision is the number of base units in one STAR.
var TokenPrecision = new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)

// Tokens returns n whole STAR in base units.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), TokenPrecision)
}

// ParseToken parses an amount of base units. Accepted forms:
//
//	12345          plain integer
//	10000e18       integer or decimal mantissa with a non-negative exponent
//	1.5 STAR       decimal amount of STAR
//
// The result must be a non-negative integer.
func ParseToken(s string) (*big.Int, error) {
	str := strings.TrimSpace(s)
	if str == "" {
		return nil, errors.New("empty amount")
	}

	if fields := strings.Fields(str); len(fields) == 2 {
		if !strings.EqualFold(fields[1], "STAR") {
			return nil, errors.Errorf("unknown unit %q", fields[1])
		}
		return scaleDecimal(fields[0], TokenDecimals)
	}

	if i := strings.IndexAny(str, "eE"); i >= 0 {
		exp, err := strconv.ParseUint(str[i+1:], 10, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid exponent in %q", s)
		}
		return scaleDecimal(str[:i], int(exp))
	}
	return scaleDecimal(str, 0)
}

// scaleDecimal returns dec * 10^exp, failing if the result is fractional or negative.
func scaleDecimal(dec string, exp int) (*big.Int, error) {
	if strings.HasPrefix(dec, "-") {
		return nil, errors.Errorf("negative amount %q", dec)
	}
	whole, frac, _ := strings.Cut(dec, ".")
	frac = strings.TrimRight(frac, "0")
	if len(frac) > exp {
		return nil, errors.Errorf("amount %q has more than %d fractional digits", dec, exp)
	}
	digits := whole + frac + strings.Repeat("0", exp-len(frac))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, errors.Errorf("invalid amount %q", dec)
	}
	return v, nil
}

// FormatToken renders base units as a STAR amount, e.g. "100.5 STAR".
func FormatToken(v *big.Int) string {
	if v == nil {
		return "<nil>"
	}
	neg := v.Sign() < 0
	q, r := new(big.Int).QuoRem(new(big.Int).Abs(v), TokenPrecision, new(big.Int))

	out := q.String()
	if r.Sign() != 0 {
		frac := r.String()
		frac = strings.Repeat("0", TokenDecimals-len(frac)) + frac
		out += "." + strings.TrimRight(frac, "0")
	}
	if neg {
		out = "-" + out
	}
	return out + " STAR"
}

// WholeTokens returns v truncated to whole STAR, saturating at the int64 bounds.
func WholeTokens(v *big.Int) int64 {
	q := new(big.Int).Quo(v, TokenPrecision)
	if !q.IsInt64() {
		if q.Sign() < 0 {
			return -1 << 63
		}
		return 1<<63 - 1
	}
	return q.Int64()
}
