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

package inference

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Provider          string
	APIKey            string
	BaseURL           string
	TextModel         string
	ImageModel        string
	QueryTimeout      time.Duration
	RequestsPerMinute int
	CacheTTL          time.Duration
}

// Providers lists the accepted provider names.
func Providers() []string {
	return []string{"gemini", "openai", "ollama"}
}

// New builds the configured backend and wraps it with the optional cache,
// rate limit and timeout layers, outermost first.
func New(ctx context.Context, conf Config) (Oracle, error) {
	var (
		backend Oracle
		err     error
	)

	switch strings.ToLower(conf.Provider) {
	case "", "gemini":
		backend, err = NewGemini(ctx, GeminiConfig{
			APIKey:     conf.APIKey,
			BaseURL:    conf.BaseURL,
			TextModel:  conf.TextModel,
			ImageModel: conf.ImageModel,
		})
	case "openai":
		backend = NewOpenAI(OpenAIConfig{
			APIKey:     conf.APIKey,
			BaseURL:    conf.BaseURL,
			TextModel:  conf.TextModel,
			ImageModel: conf.ImageModel,
		})
	case "ollama":
		backend, err = NewOllama(OllamaConfig{
			Host:      conf.BaseURL,
			TextModel: conf.TextModel,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, conf.Provider)
	}
	if err != nil {
		return nil, err
	}

	oracle := WithTimeout(backend, conf.QueryTimeout)
	oracle = WithRateLimit(oracle, conf.RequestsPerMinute)
	oracle = WithCache(oracle, conf.CacheTTL)
	return oracle, nil
}
