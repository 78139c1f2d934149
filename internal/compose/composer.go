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

// Package compose turns a discovered topic into a verified, scored brief.
package compose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"Unbewohnte/BoldBriefing/internal/article"
	"Unbewohnte/BoldBriefing/internal/inference"
)

// MaxSources is how many candidate sources a brief keeps.
const MaxSources = 3

type Composer struct {
	oracle inference.Oracle
	model  string
	now    func() time.Time
	newID  func() string
}

func New(oracle inference.Oracle, model string) *Composer {
	return &Composer{
		oracle: oracle,
		model:  model,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Compose asks the model to verify and write up a topic. Only transport
// failures are returned; malformed output is absorbed by ParseDraft.
func (c *Composer) Compose(
	ctx context.Context,
	topic string,
	background string,
	category article.Category,
	region article.Region,
	sources []article.Source,
) (article.Brief, error) {
	resp, err := c.oracle.Generate(ctx, inference.Request{
		Model:  c.model,
		Prompt: BuildPrompt(topic, background, region, sources),
		JSON:   true,
	})
	if err != nil {
		return article.Brief{}, fmt.Errorf("draft briefing: %w", err)
	}

	var raw string
	if resp != nil {
		raw = resp.Text
	}
	draft := ParseDraft(raw, topic)

	kept := sources
	if len(kept) > MaxSources {
		kept = kept[:MaxSources]
	}

	return article.Brief{
		ID:                c.newID(),
		Headline:          draft.Headline,
		Summary:           draft.Summary,
		Category:          category,
		Region:            region,
		Timestamp:         c.now(),
		Sources:           append([]article.Source{}, kept...),
		Hashtags:          draft.Hashtags,
		VerificationScore: draft.VerificationScore,
		TweetDraft:        draft.TweetDraft,
		Status:            draft.Status,
		RankingScore:      draft.RankingScore,
	}, nil
}

// BuildPrompt renders the verification and writing instructions.
func BuildPrompt(topic string, background string, region article.Region, sources []article.Source) string {
	titles := make([]string, 0, len(sources))
	for _, s := range sources {
		titles = append(titles, s.Title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Region: %s\n", region)
	if background != "" && background != topic {
		fmt.Fprintf(&b, "Context: %s\n", background)
	}
	fmt.Fprintf(&b, `
VERIFICATION PROTOCOL:
1. Cross-reference with sources: %s.
2. Require 2+ independent sources. If <2, set status to 'developing'.

BRIEF GENERATION:
- Tone: Neutral, Factual, Concise (120-220 words).
- Headline: <100 chars, punchy.
- Key Points: 3-5 bullets.
- Context: Why it matters for %s.

Output JSON:
{
  "headline": "...",
  "summary": "...",
  "tweetDraft": "Headline + #Tags + [Link]",
  "hashtags": ["#tag1", "#tag2"],
  "verificationScore": 95,
  "status": "published" | "developing",
  "rankingScore": 88
}`, strings.Join(titles, ", "), region)

	return b.String()
}
