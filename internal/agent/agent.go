/*
   BoldBriefing - autonomous news briefing agent
   Copyright (C) 2025  Unbewohnte (Kasyanov Nikolay Alexeevich)

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package agent runs the briefing pipeline: it picks a target, asks for a
// trending topic, drafts and verifies a brief, illustrates it and publishes
// it to the feed. It owns the pipeline stage, the auto-pilot loop and the
// region pool.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"Unbewohnte/BoldBriefing/internal/article"
	"Unbewohnte/BoldBriefing/internal/feed"
	"Unbewohnte/BoldBriefing/internal/journal"
)

var ErrCycleInProgress = errors.New("a cycle is already in progress")

type Agent struct {
	topics      TopicSource
	composer    Composer
	illustrator Illustrator
	feed        *feed.Store
	journal     *journal.Journal
	preflight   Preflight
	resolver    SourceResolver
	archive     Archive
	syndicators []Syndicator
	chooser     Chooser
	sleep       func(context.Context, time.Duration) error
	logger      *slog.Logger

	interval     time.Duration
	rankingDelay time.Duration
	settleDelay  time.Duration
	primary      article.Region
	bias         float64
	threshold    int

	running atomic.Bool

	// commitMu orders cycle side effects against disengaging auto-pilot.
	commitMu sync.Mutex

	mu        sync.Mutex
	stage     Stage
	autopilot bool
	stopLoop  context.CancelFunc
	regions   []article.Region
	closed    bool

	subMu       sync.Mutex
	subscribers map[int]func(Event)
	nextSub     int

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(deps Deps) *Agent {
	a := &Agent{
		topics:       deps.Topics,
		composer:     deps.Composer,
		illustrator:  deps.Illustrator,
		feed:         deps.Feed,
		journal:      deps.Journal,
		preflight:    deps.Preflight,
		resolver:     deps.Resolver,
		archive:      deps.Archive,
		syndicators:  deps.Syndicators,
		chooser:      deps.Chooser,
		sleep:        deps.Sleep,
		logger:       deps.Logger,
		interval:     deps.Interval,
		rankingDelay: deps.RankingDelay,
		settleDelay:  deps.SettleDelay,
		primary:      deps.PrimaryRegion,
		bias:         deps.PrimaryBias,
		threshold:    deps.Threshold,
		stage:        StageIdle,
		subscribers:  make(map[int]func(Event)),
	}

	if a.feed == nil {
		a.feed = feed.New()
	}
	if a.journal == nil {
		a.journal = journal.New()
	}
	if a.chooser == nil {
		a.chooser = defaultChooser{}
	}
	if a.sleep == nil {
		a.sleep = sleep
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	if a.interval <= 0 {
		a.interval = DefaultInterval
	}
	if a.rankingDelay <= 0 {
		a.rankingDelay = DefaultRankingDelay
	}
	if a.settleDelay <= 0 {
		a.settleDelay = DefaultSettleDelay
	}
	if a.primary == "" {
		a.primary = DefaultPrimaryRegion
	}
	if a.bias <= 0 {
		a.bias = DefaultPrimaryBias
	}
	if a.threshold <= 0 {
		a.threshold = DefaultThreshold
	}

	if deps.DefaultRegions == nil {
		a.regions = []article.Region{article.Kenya, article.EastAfrica}
	} else {
		for _, r := range deps.DefaultRegions {
			if r.Valid() && !slices.Contains(a.regions, r) {
				a.regions = append(a.regions, r)
			}
		}
	}

	a.base, a.cancel = context.WithCancel(context.Background())
	return a
}

func (a *Agent) Feed() *feed.Store             { return a.feed }
func (a *Agent) Journal() *journal.Journal     { return a.journal }
func (a *Agent) Interval() time.Duration       { return a.interval }
func (a *Agent) PrimaryRegion() article.Region { return a.primary }

// SetAutopilot engages or disengages the periodic loop. Engaging runs one
// cycle right away. Disengaging cancels the cycle the loop has in flight and
// forces the stage back to idle.
func (a *Agent) SetAutopilot(on bool) {
	if on {
		a.engage()
		return
	}
	a.disengage()
}

func (a *Agent) engage() {
	a.mu.Lock()
	if a.autopilot || a.closed {
		a.mu.Unlock()
		return
	}
	a.autopilot = true
	ctx, stop := context.WithCancel(a.base)
	a.stopLoop = stop
	a.wg.Add(1)
	a.mu.Unlock()

	a.journal.Success("Auto-Pilot Sequence Initiated. 24/7 Monitoring Active.")
	a.emit(Event{Type: EventAutopilot, Autopilot: true})

	go a.loop(ctx)
}

func (a *Agent) disengage() {
	a.commitMu.Lock()
	a.mu.Lock()
	if !a.autopilot {
		a.mu.Unlock()
		a.commitMu.Unlock()
		return
	}
	a.autopilot = false
	stop := a.stopLoop
	a.stopLoop = nil
	a.mu.Unlock()

	stop()
	a.journal.Info("Auto-Pilot Disengaged. System Idle.")
	a.setStage(StageIdle)
	a.commitMu.Unlock()

	a.emit(Event{Type: EventAutopilot, Autopilot: false})
}

func (a *Agent) Autopilot() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.autopilot
}

// ToggleRegion flips region in or out of the selection pool and reports
// whether it is now enabled. Newly enabled regions go to the end of the pool.
func (a *Agent) ToggleRegion(region article.Region) bool {
	if !region.Valid() {
		return false
	}

	a.mu.Lock()
	enabled := true
	if i := slices.Index(a.regions, region); i >= 0 {
		a.regions = slices.Delete(a.regions, i, i+1)
		enabled = false
	} else {
		a.regions = append(a.regions, region)
	}
	regions := slices.Clone(a.regions)
	a.mu.Unlock()

	a.emit(Event{Type: EventRegions, Regions: regions})
	return enabled
}

func (a *Agent) EnabledRegions() []article.Region {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.regions)
}

func (a *Agent) Stage() Stage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stage
}

// Subscribe registers fn for every future event. Handlers run synchronously
// and must not call SetAutopilot.
func (a *Agent) Subscribe(fn func(Event)) (cancel func()) {
	a.subMu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subscribers[id] = fn
	a.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.subMu.Lock()
			delete(a.subscribers, id)
			a.subMu.Unlock()
		})
	}
}

func (a *Agent) Snapshot() State {
	a.mu.Lock()
	state := State{
		Stage:     a.stage,
		Autopilot: a.autopilot,
		Regions:   slices.Clone(a.regions),
	}
	a.mu.Unlock()

	if state.Regions == nil {
		state.Regions = []article.Region{}
	}
	state.Running = a.running.Load()
	state.FeedSize = a.feed.Len()
	return state
}

// Close stops the loop, cancels any cycle in flight and waits for it.
func (a *Agent) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.autopilot = false
	a.stopLoop = nil
	a.mu.Unlock()

	a.cancel()
	a.wg.Wait()
}

func (a *Agent) loop(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.tick(ctx)
	for {
		select {
		case <-ticker.C:
			a.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *Agent) tick(ctx context.Context) {
	report, err := a.run(ctx, nil)
	switch {
	case errors.Is(err, ErrCycleInProgress):
		a.logger.Debug("Cycle still in flight, skipping tick")
		a.commit(ctx, func() {
			a.journal.Info("[SCHEDULER] Previous cycle still running. Skipping tick.")
		})
	case err != nil:
		a.logger.Debug("Cycle ended with error", "outcome", report.Outcome, "error", err)
	default:
		a.logger.Debug("Cycle finished", "outcome", report.Outcome, "region", report.Region, "category", report.Category)
	}
}

// RunCycle runs one cycle on a randomly picked target and blocks until it
// ends.
func (a *Agent) RunCycle(ctx context.Context) (Report, error) {
	return a.run(ctx, nil)
}

// RunTarget runs one cycle on the given region and category, whether or not
// the region is enabled.
func (a *Agent) RunTarget(ctx context.Context, region article.Region, category article.Category) (Report, error) {
	return a.run(ctx, &target{region: region, category: category})
}

// Trigger starts a cycle in the background. It fails straight away if a
// cycle is already in flight.
func (a *Agent) Trigger() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return context.Canceled
	}
	if !a.running.CompareAndSwap(false, true) {
		a.mu.Unlock()
		return ErrCycleInProgress
	}
	a.wg.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()
		defer a.running.Store(false)

		report, err := a.cycle(a.base, nil)
		if err != nil {
			a.logger.Debug("Manual cycle ended with error", "outcome", report.Outcome, "error", err)
		}
	}()
	return nil
}

func (a *Agent) run(ctx context.Context, forced *target) (Report, error) {
	if !a.running.CompareAndSwap(false, true) {
		return Report{Outcome: OutcomeBusy}, ErrCycleInProgress
	}
	defer a.running.Store(false)
	return a.cycle(ctx, forced)
}

// commit runs fn unless ctx is already done. Disengaging holds the same
// lock while it cancels, so a cancelled cycle never writes after it.
func (a *Agent) commit(ctx context.Context, fn func()) bool {
	a.commitMu.Lock()
	defer a.commitMu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

func (a *Agent) setStage(stage Stage) {
	a.mu.Lock()
	changed := a.stage != stage
	a.stage = stage
	a.mu.Unlock()

	if changed {
		a.emit(Event{Type: EventStage, Stage: stage})
	}
}

func (a *Agent) emit(event Event) {
	a.subMu.Lock()
	handlers := make([]func(Event), 0, len(a.subscribers))
	for _, fn := range a.subscribers {
		handlers = append(handlers, fn)
	}
	a.subMu.Unlock()

	for _, fn := range handlers {
		fn(event)
	}
}
