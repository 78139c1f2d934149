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

// Package catalog holds the static region x category search configuration
// that steers topic discovery.
package catalog

import (
	"fmt"

	"Unbewohnte/BoldBriefing/internal/article"
)

// FallbackWeight is used for pairs without a table entry.
const FallbackWeight = 1.0

type QueryConfig struct {
	Query       string  `yaml:"query" json:"query"`
	Weight      float64 `yaml:"weight" json:"weight"`
	ImagePrompt string  `yaml:"image_prompt,omitempty" json:"imagePrompt,omitempty"`
}

type Catalog struct {
	entries map[article.Region]map[article.Category]QueryConfig
}

// Entry is one row of the catalog, used for listing.
type Entry struct {
	Region   article.Region
	Category article.Category
	QueryConfig
}

// Default returns the built-in table.
func Default() *Catalog {
	c := &Catalog{entries: make(map[article.Region]map[article.Category]QueryConfig, len(defaultTable))}
	for region, byCategory := range defaultTable {
		for category, conf := range byCategory {
			c.Set(region, category, conf)
		}
	}
	return c
}

// Set adds or replaces the entry for a pair.
func (c *Catalog) Set(region article.Region, category article.Category, conf QueryConfig) {
	if c.entries == nil {
		c.entries = make(map[article.Region]map[article.Category]QueryConfig)
	}
	byCategory, ok := c.entries[region]
	if !ok {
		byCategory = make(map[article.Category]QueryConfig)
		c.entries[region] = byCategory
	}
	byCategory[category] = conf
}

// Get returns the configured entry for a pair, if any.
func (c *Catalog) Get(region article.Region, category article.Category) (QueryConfig, bool) {
	if c == nil {
		return QueryConfig{}, false
	}
	conf, ok := c.entries[region][category]
	return conf, ok
}

// Lookup returns the entry for a pair or a synthesized generic query.
func (c *Catalog) Lookup(region article.Region, category article.Category) QueryConfig {
	if conf, ok := c.Get(region, category); ok {
		return conf
	}
	return QueryConfig{
		Query:  fmt.Sprintf("%s %s news", region, category),
		Weight: FallbackWeight,
	}
}

// Entries lists configured pairs in region then category order.
func (c *Catalog) Entries() []Entry {
	var out []Entry
	for _, region := range article.Regions() {
		for _, category := range article.Categories() {
			if conf, ok := c.Get(region, category); ok {
				out = append(out, Entry{Region: region, Category: category, QueryConfig: conf})
			}
		}
	}
	return out
}
