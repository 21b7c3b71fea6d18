// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()

	Counter("noop_count").Add(1)
	CounterVec("noop_count_vec", []string{"kind"}).AddWithLabel(1, map[string]string{"kind": "x"})
	Gauge("noop_gauge").Set(3)
	Histogram("noop_hist", nil).Observe(4)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf))
	assert.Zero(t, buf.Len())
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics() // make sure it starts in the default state of noopMeter

	for _, a := range []any{
		Gauge("noopGauge"),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)

	// after initialization, newly created metrics become of the prometheus type
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	count := Counter("prom_count")
	countVec := CounterVec("prom_count_vec", []string{"zeroOrOne"})
	gauge := Gauge("prom_gauge")
	hist := Histogram("prom_hist", BucketStakers)

	count.Add(3)
	total := 0
	for i := 0; i < 10; i++ {
		countVec.AddWithLabel(int64(i), map[string]string{"zeroOrOne": strconv.Itoa(i % 2)})
		hist.Observe(int64(i))
		total += i
	}
	gauge.Set(42)
	gauge.Add(-2)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	require.Contains(t, byName, "stakesim_prom_count")
	assert.Equal(t, float64(3), byName["stakesim_prom_count"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(40), byName["stakesim_prom_gauge"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(total), byName["stakesim_prom_hist"].Metric[0].GetHistogram().GetSampleSum())

	vec := byName["stakesim_prom_count_vec"]
	require.Len(t, vec.Metric, 2)
	assert.Equal(t, float64(total), vec.Metric[0].GetCounter().GetValue()+vec.Metric[1].GetCounter().GetValue())

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf))
	assert.Contains(t, buf.String(), "stakesim_prom_count 3")
	assert.Contains(t, buf.String(), "# TYPE stakesim_prom_gauge gauge")
}
