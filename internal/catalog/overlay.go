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

package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"Unbewohnte/BoldBriefing/internal/article"
)

// LoadOverlay reads a YAML file of the form
//
//	Kenya:
//	  Politics:
//	    query: "..."
//	    weight: 1.3
//	    image_prompt: "..."
//
// and applies its entries on top of c. Region and category keys may be
// display names or slugs.
func (c *Catalog) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog overlay: %w", err)
	}
	return c.ApplyOverlay(data)
}

func (c *Catalog) ApplyOverlay(data []byte) error {
	var raw map[string]map[string]QueryConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse catalog overlay: %w", err)
	}

	for regionName, byCategory := range raw {
		region, err := article.ParseRegion(regionName)
		if err != nil {
			return err
		}
		for categoryName, conf := range byCategory {
			category, err := article.ParseCategory(categoryName)
			if err != nil {
				return err
			}
			if conf.Query == "" {
				return fmt.Errorf("catalog overlay: empty query for %s/%s", region, category)
			}
			if conf.Weight <= 0 {
				conf.Weight = FallbackWeight
			}
			c.Set(region, category, conf)
		}
	}
	return nil
}
