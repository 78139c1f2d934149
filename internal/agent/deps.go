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

package agent

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"Unbewohnte/BoldBriefing/internal/article"
	"Unbewohnte/BoldBriefing/internal/feed"
	"Unbewohnte/BoldBriefing/internal/journal"
	"Unbewohnte/BoldBriefing/internal/scout"
)

const (
	DefaultInterval      = 60 * time.Second
	DefaultRankingDelay  = 800 * time.Millisecond
	DefaultSettleDelay   = 2 * time.Second
	DefaultPrimaryRegion = article.Kenya
	DefaultPrimaryBias   = 0.6
	DefaultThreshold     = 50
)

type TopicSource interface {
	FindTopic(ctx context.Context, category article.Category, region article.Region) (*scout.Topic, error)
}

type Composer interface {
	Compose(
		ctx context.Context,
		topic string,
		background string,
		category article.Category,
		region article.Region,
		sources []article.Source,
	) (article.Brief, error)
}

type Illustrator interface {
	Illustrate(ctx context.Context, brief article.Brief) (string, error)
}

// Preflight reports whether the oracle can be called at all.
type Preflight interface {
	Ready() error
}

type SourceResolver interface {
	Resolve(ctx context.Context, sources []article.Source) []article.Source
}

type Archive interface {
	SaveBrief(ctx context.Context, brief article.Brief) error
}

// Syndicator pushes a published brief to an outside channel.
type Syndicator interface {
	Name() string
	Syndicate(ctx context.Context, brief article.Brief) error
}

// Chooser supplies randomness for target selection.
type Chooser interface {
	Float64() float64
	IntN(n int) int
}

type defaultChooser struct{}

func (defaultChooser) Float64() float64 { return rand.Float64() }
func (defaultChooser) IntN(n int) int   { return rand.IntN(n) }

// Deps wires the collaborators and tunables of an Agent. Zero durations,
// bias and threshold select the package defaults.
type Deps struct {
	Topics      TopicSource
	Composer    Composer
	Illustrator Illustrator
	Feed        *feed.Store
	Journal     *journal.Journal
	Preflight   Preflight

	// Optional.
	Resolver    SourceResolver
	Archive     Archive
	Syndicators []Syndicator

	Chooser Chooser
	// Sleep waits for d or until ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error

	Interval     time.Duration
	RankingDelay time.Duration
	SettleDelay  time.Duration

	PrimaryRegion article.Region
	PrimaryBias   float64
	Threshold     int
	// DefaultRegions is the initial pool. Nil means Kenya and East Africa,
	// an empty slice means no region at all.
	DefaultRegions []article.Region

	Logger *slog.Logger
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
