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
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

const DefaultOllamaModel = "gemma3:12b"

type OllamaConfig struct {
	// Host overrides OLLAMA_HOST when set.
	Host      string
	TextModel string
}

// Ollama runs prompts against a local model. Local models neither search nor
// draw, so grounded requests come back without citations and image requests
// come back empty.
type Ollama struct {
	client *ollama.Client
	model  string
}

var _ Oracle = (*Ollama)(nil)

func NewOllama(conf OllamaConfig) (*Ollama, error) {
	var (
		client *ollama.Client
		err    error
	)
	if conf.Host != "" {
		base, parseErr := url.Parse(conf.Host)
		if parseErr != nil {
			return nil, fmt.Errorf("parse ollama host: %w", parseErr)
		}
		client = ollama.NewClient(base, http.DefaultClient)
	} else {
		client, err = ollama.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
	}

	return &Ollama{
		client: client,
		model:  firstNonEmpty(conf.TextModel, DefaultOllamaModel),
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Ready() error { return nil }

func (o *Ollama) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.Image != nil {
		return &Response{}, nil
	}

	stream := false
	genReq := &ollama.GenerateRequest{
		Model:  firstNonEmpty(req.Model, o.model),
		Prompt: req.Prompt,
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": 0.2,
		},
	}
	if req.JSON {
		genReq.Format = json.RawMessage(`"json"`)
	}

	var response strings.Builder
	err := o.client.Generate(ctx, genReq, func(res ollama.GenerateResponse) error {
		response.WriteString(res.Response)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama generate: %w", err)
	}

	return &Response{Text: CleanText(response.String())}, nil
}

// ListModels returns the models available on the local server.
func (o *Ollama) ListModels(ctx context.Context) ([]ollama.ListModelResponse, error) {
	response, err := o.client.List(ctx)
	if err != nil {
		return nil, err
	}
	return response.Models, nil
}
