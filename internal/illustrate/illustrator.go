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

// Package illustrate produces a header image for a brief.
package illustrate

import (
	"context"
	"encoding/base64"
	"fmt"

	"Unbewohnte/BoldBriefing/internal/article"
	"Unbewohnte/BoldBriefing/internal/catalog"
	"Unbewohnte/BoldBriefing/internal/inference"
)

const (
	BaseStyle   = "modern, journalistic, clean, editorial illustration"
	AspectRatio = "16:9"

	contextRunes     = 100
	defaultImageMIME = "image/png"
)

var categoryStyles = map[article.Category]string{
	article.Politics:      ", symbolic, flags, parliament silhouette, neutral map",
	article.Entertainment: ", concert lighting, red carpet, cinematic, celebrity silhouette",
	article.ClimateChange: ", earth from space, weather patterns, nature photography style",
	article.StocksCrypto:  ", digital finance abstract, blockchain nodes, market graph",
	article.WarsConflict:  ", map based, neutral topographic, strategic overview, no violence",
}

type Illustrator struct {
	oracle  inference.Oracle
	catalog *catalog.Catalog
	model   string
}

func New(oracle inference.Oracle, queries *catalog.Catalog, model string) *Illustrator {
	if queries == nil {
		queries = catalog.Default()
	}
	return &Illustrator{
		oracle:  oracle,
		catalog: queries,
		model:   model,
	}
}

// Illustrate returns the first generated image as a data URL. An empty
// string with a nil error means the model drew nothing.
func (i *Illustrator) Illustrate(ctx context.Context, brief article.Brief) (string, error) {
	resp, err := i.oracle.Generate(ctx, inference.Request{
		Model:  i.model,
		Prompt: BuildPrompt(brief, i.Style(brief.Region, brief.Category)),
		Image:  &inference.ImageOptions{AspectRatio: AspectRatio},
	})
	if err != nil {
		return "", fmt.Errorf("generate brief image: %w", err)
	}
	if resp == nil {
		return "", nil
	}

	for _, img := range resp.Images {
		if len(img.Data) == 0 {
			continue
		}
		mime := img.MIMEType
		if mime == "" {
			mime = defaultImageMIME
		}
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data), nil
	}
	return "", nil
}

// Style prefers a curated catalog prompt and otherwise derives one from the
// category.
func (i *Illustrator) Style(region article.Region, category article.Category) string {
	if conf, ok := i.catalog.Get(region, category); ok && conf.ImagePrompt != "" {
		return conf.ImagePrompt
	}
	return CategoryStyle(category)
}

func CategoryStyle(category article.Category) string {
	return BaseStyle + categoryStyles[category]
}

func BuildPrompt(brief article.Brief, style string) string {
	return fmt.Sprintf(`Generate a news header image.
Headline: "%s"
Context: %s
Style: %s.
Aspect Ratio: %s.
Constraint: No text overlay. Photorealistic or high-end vector art.`,
		brief.Headline,
		truncateRunes(brief.Summary, contextRunes),
		style,
		AspectRatio,
	)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
