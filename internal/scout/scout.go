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

// Package scout asks the oracle for the single highest velocity topic of a
// region and category.
package scout

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"Unbewohnte/BoldBriefing/internal/article"
	"Unbewohnte/BoldBriefing/internal/catalog"
	"Unbewohnte/BoldBriefing/internal/inference"
)

const (
	// NoTrendSentinel is what the model answers when nothing qualifies.
	NoTrendSentinel = "NO_TREND"

	maxSources = 5
)

// Topic is a discovered story with the citations that surfaced it.
type Topic struct {
	Topic   string
	Context string
	Sources []article.Source
}

type Scout struct {
	oracle  inference.Oracle
	catalog *catalog.Catalog
	model   string
}

func New(oracle inference.Oracle, queries *catalog.Catalog, model string) *Scout {
	if queries == nil {
		queries = catalog.Default()
	}
	return &Scout{
		oracle:  oracle,
		catalog: queries,
		model:   model,
	}
}

// FindTopic returns nil without an error when the model reports that
// nothing significant is trending.
func (s *Scout) FindTopic(ctx context.Context, category article.Category, region article.Region) (*Topic, error) {
	conf := s.catalog.Lookup(region, category)

	resp, err := s.oracle.Generate(ctx, inference.Request{
		Model:    s.model,
		Prompt:   BuildPrompt(conf),
		Grounded: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch trending topic: %w", err)
	}

	return Interpret(resp), nil
}

// Interpret turns a grounded response into a Topic, or nil for no trend.
func Interpret(resp *inference.Response) *Topic {
	if resp == nil {
		return nil
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" || strings.Contains(text, NoTrendSentinel) {
		return nil
	}

	return &Topic{
		Topic:   text,
		Context: text,
		Sources: collectSources(resp.Citations),
	}
}

func collectSources(citations []inference.Citation) []article.Source {
	sources := make([]article.Source, 0, maxSources)
	for _, c := range citations {
		if strings.TrimSpace(c.URL) == "" {
			continue
		}
		title := strings.TrimSpace(c.Title)
		if title == "" {
			title = article.PlaceholderSourceTitle
		}
		sources = append(sources, article.Source{Title: title, URL: c.URL})
		if len(sources) == maxSources {
			break
		}
	}
	return sources
}

// BuildPrompt renders the ingestion instructions for a catalog entry.
func BuildPrompt(conf catalog.QueryConfig) string {
	return fmt.Sprintf(`Act as the Ingestion Engine for Bold Briefing.
Execute Search: "%s".

RANKING ALGORITHM:
1. Scan for recent topics (last 24h).
2. Sort by Global Attention (mentions, major outlets).
3. Filter out low-quality rumors.
4. Select the #1 highest velocity topic.

Config Weight: %s (Prioritize high weight topics if scanning multiple).

If nothing significant/verified is found, return "%s".
Otherwise, return a summary of the topic.`,
		conf.Query,
		formatWeight(conf.Weight),
		NoTrendSentinel,
	)
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
