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
	"fmt"
	"slices"

	"Unbewohnte/BoldBriefing/internal/article"
)

const candidatePreviewRunes = 30

type target struct {
	region   article.Region
	category article.Category
}

// cycle walks the pipeline once. Every step that waits on a collaborator is
// followed by a commit, so cancellation stops the cycle without leaving any
// trace behind.
func (a *Agent) cycle(ctx context.Context, forced *target) (Report, error) {
	if a.preflight != nil {
		if err := a.preflight.Ready(); err != nil {
			a.commit(ctx, func() {
				a.journal.Error("CRITICAL: API Key missing. Aborting cycle.")
			})
			a.SetAutopilot(false)
			a.commit(ctx, func() { a.setStage(StageIdle) })
			return Report{Outcome: OutcomeAborted}, fmt.Errorf("preflight: %w", err)
		}
	}

	var report Report
	if forced != nil {
		report.Region, report.Category = forced.region, forced.category
	} else {
		t, ok := a.pickTarget()
		if !ok {
			if !a.commit(ctx, func() {
				a.journal.Info("[INGESTOR] No regions enabled. Skipping cycle.")
			}) {
				return cancelled(ctx, report)
			}
			report.Outcome = OutcomeSkipped
			return report, nil
		}
		report.Region, report.Category = t.region, t.category
	}

	// SCANNING
	if !a.commit(ctx, func() {
		a.setStage(StageScanning)
		a.journal.Action(fmt.Sprintf("[INGESTOR] Scanning %s for %s...", report.Region, report.Category))
	}) {
		return cancelled(ctx, report)
	}

	topic, err := a.topics.FindTopic(ctx, report.Category, report.Region)
	if err != nil {
		return a.fail(ctx, report, err)
	}
	if topic == nil {
		if !a.commit(ctx, func() {
			a.journal.Info("[INGESTOR] No high-velocity trend found. Sleeping...")
			a.setStage(StageIdle)
		}) {
			return cancelled(ctx, report)
		}
		report.Outcome = OutcomeNoTrend
		return report, nil
	}
	report.Topic = topic.Topic

	// RANKING
	if !a.commit(ctx, func() {
		a.setStage(StageRanking)
		a.journal.Success(fmt.Sprintf("[RANKER] Top candidate selected: \"%s...\"", preview(topic.Topic, candidatePreviewRunes)))
	}) {
		return cancelled(ctx, report)
	}
	if err := a.sleep(ctx, a.rankingDelay); err != nil {
		return cancelled(ctx, report)
	}

	// VERIFYING
	if !a.commit(ctx, func() {
		a.setStage(StageVerifying)
		a.journal.Action(fmt.Sprintf("[VERIFIER] Cross-referencing %d sources...", len(topic.Sources)))
	}) {
		return cancelled(ctx, report)
	}

	sources := slices.Clone(topic.Sources)
	if a.resolver != nil {
		sources = a.resolver.Resolve(ctx, sources)
		if ctx.Err() != nil {
			return cancelled(ctx, report)
		}
	}

	brief, err := a.composer.Compose(ctx, topic.Topic, topic.Context, report.Category, report.Region, sources)
	if err != nil {
		return a.fail(ctx, report, err)
	}
	if brief.VerificationScore < a.threshold {
		if !a.commit(ctx, func() {
			a.journal.Error(fmt.Sprintf("[RISK CONTROL] Topic rejected. Low verification score (%d%%).", brief.VerificationScore))
			a.setStage(StageIdle)
		}) {
			return cancelled(ctx, report)
		}
		report.Outcome = OutcomeRejected
		report.Brief = &brief
		return report, nil
	}

	// GENERATING_ART
	if !a.commit(ctx, func() {
		a.setStage(StageGeneratingArt)
		a.journal.Action("[IMAGE GEN] Creating journalistic illustration...")
	}) {
		return cancelled(ctx, report)
	}

	imageURL, err := a.illustrator.Illustrate(ctx, brief)
	if ctx.Err() != nil {
		return cancelled(ctx, report)
	}
	if err != nil {
		a.logger.Warn("Illustration failed", "brief", brief.ID, "error", err)
	}
	if err == nil && imageURL != "" {
		brief.ImageURL = imageURL
		if !a.commit(ctx, func() {
			a.journal.Success("[IMAGE GEN] Visual asset created successfully.")
		}) {
			return cancelled(ctx, report)
		}
	} else if !a.commit(ctx, func() {
		a.journal.Error("[IMAGE GEN] Failed to generate image. Publishing text only.")
	}) {
		return cancelled(ctx, report)
	}

	// PUBLISHING
	published := brief.Clone()
	if !a.commit(ctx, func() {
		a.setStage(StagePublishing)
		a.feed.Prepend(published)
		a.journal.Success(fmt.Sprintf("[PUBLISHER] Brief published to feed: %s", published.Headline))
		a.emit(Event{Type: EventBrief, Brief: &published})
	}) {
		return cancelled(ctx, report)
	}
	report.Outcome = OutcomePublished
	report.Brief = &brief

	a.distribute(ctx, brief)

	if err := a.sleep(ctx, a.settleDelay); err != nil {
		return report, nil
	}
	a.commit(ctx, func() { a.setStage(StageIdle) })
	return report, nil
}

// distribute archives and syndicates a published brief. None of it can
// fail the cycle.
func (a *Agent) distribute(ctx context.Context, brief article.Brief) {
	if a.archive != nil {
		if err := a.archive.SaveBrief(ctx, brief); err != nil {
			a.logger.Error("Failed to archive brief", "brief", brief.ID, "error", err)
		}
	}

	for _, s := range a.syndicators {
		err := s.Syndicate(ctx, brief.Clone())
		ok := a.commit(ctx, func() {
			if err != nil {
				a.journal.Error(fmt.Sprintf("[SYNDICATOR] %s delivery failed: %s", s.Name(), err))
				return
			}
			a.journal.Info(fmt.Sprintf("[SYNDICATOR] Brief delivered via %s.", s.Name()))
		})
		if !ok {
			return
		}
	}
}

func (a *Agent) fail(ctx context.Context, report Report, err error) (Report, error) {
	if ctx.Err() != nil {
		return cancelled(ctx, report)
	}
	if !a.commit(ctx, func() {
		a.journal.Error(fmt.Sprintf("[SYSTEM FAILURE] Agent Cycle Error: %s", err))
		a.setStage(StageIdle)
	}) {
		return cancelled(ctx, report)
	}
	report.Outcome = OutcomeFailed
	return report, err
}

func cancelled(ctx context.Context, report Report) (Report, error) {
	report.Outcome = OutcomeCancelled
	report.Brief = nil
	return report, ctx.Err()
}

// pickTarget favours the primary region when it is enabled and otherwise
// draws uniformly from the pool. The category is always uniform.
func (a *Agent) pickTarget() (target, bool) {
	a.mu.Lock()
	pool := slices.Clone(a.regions)
	a.mu.Unlock()

	if len(pool) == 0 {
		return target{}, false
	}

	var region article.Region
	if slices.Contains(pool, a.primary) && a.chooser.Float64() > 1-a.bias {
		region = a.primary
	} else {
		region = pool[a.chooser.IntN(len(pool))]
	}

	categories := article.Categories()
	return target{
		region:   region,
		category: categories[a.chooser.IntN(len(categories))],
	}, true
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
