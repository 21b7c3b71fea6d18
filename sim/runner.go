// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sim

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/stakesim/builtin/stake"
	"github.com/vechain/stakesim/common"
	"github.com/vechain/stakesim/kv"
	"github.com/vechain/stakesim/lvldb"
)

// OpenStore returns the store a scenario's actor keeps its state in.
type OpenStore func(sc *Scenario) (kv.Store, error)

// MemStore opens a fresh in-memory store for every scenario.
func MemStore(*Scenario) (kv.Store, error) {
	return lvldb.NewMem()
}

// Run executes one scenario against the actor over store and snapshots the final state.
//
// A store that was already ticked is resumed: the run starts after the last ticked epoch and
// messages for earlier epochs are skipped. Cancellation only lands between epochs, so an
// interrupted run resumes exactly. A run that failed mid-epoch may have applied part of that
// epoch's messages, and they are delivered again.
func Run(ctx context.Context, sc *Scenario, store kv.Store, onTick func(*stake.TickResult)) (*Report, error) {
	actor, err := stake.New(store, sc.Params)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", sc.Name)
	}

	start, messages := sc.Start, sc.Messages
	last, resumed, err := actor.LastTick()
	if err != nil {
		return nil, err
	}
	resumed = resumed && last >= sc.Start
	if resumed {
		start = last + 1
		messages = pendingMessages(sc.Messages, start)
		logger.Info("resuming scenario", "name", sc.Name, "last", last, "skipped", len(sc.Messages)-len(messages))
	}

	logger.Info("running scenario", "name", sc.Name, "start", start, "stop", sc.StopAt, "messages", len(messages))
	report, err := NewVM(actor).OnTick(onTick).Exec(ctx, messages, start, sc.StopAt)
	if report != nil {
		report.Name = sc.Name
		report.Resumed = resumed
		report.Skipped = len(sc.Messages) - len(messages)
	}
	if err != nil {
		return report, errors.Wrapf(err, "scenario %s", sc.Name)
	}

	if report.Final, err = TakeSnapshot(actor); err != nil {
		return report, err
	}
	return report, nil
}

func pendingMessages(messages []Message, from common.Epoch) []Message {
	pending := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Epoch >= from {
			pending = append(pending, m)
		}
	}
	return pending
}

// CheckNames fails on scenarios sharing a name. Names key the per scenario stores.
func CheckNames(scenarios []*Scenario) error {
	seen := make(map[string]struct{}, len(scenarios))
	for _, sc := range scenarios {
		if _, ok := seen[sc.Name]; ok {
			return errors.Errorf("duplicate scenario name %q", sc.Name)
		}
		seen[sc.Name] = struct{}{}
	}
	return nil
}

// RunAll runs scenarios concurrently, at most parallel at a time, each on its own actor and store.
// Reports are returned in scenario order. The first failure cancels the remaining runs.
func RunAll(ctx context.Context, scenarios []*Scenario, parallel int, open OpenStore) ([]*Report, error) {
	if open == nil {
		open = MemStore
	}
	reports := make([]*Report, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			store, err := open(sc)
			if err != nil {
				return errors.Wrapf(err, "open store for %s", sc.Name)
			}
			defer store.Close()

			reports[i], err = Run(ctx, sc, store, nil)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}
