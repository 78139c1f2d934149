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
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const (
	DefaultGeminiTextModel  = "gemini-2.5-flash"
	DefaultGeminiImageModel = "gemini-2.5-flash-image"
)

type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	HTTPClient *http.Client
}

// Gemini is backed by the Google Gen AI SDK. It is the only backend that
// supports search grounding.
type Gemini struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

var _ Oracle = (*Gemini)(nil)

// NewGemini builds a client. An empty API key is not an error here: the
// returned oracle reports ErrMissingCredentials from Ready so the agent can
// disengage cleanly instead of the process refusing to start.
func NewGemini(ctx context.Context, conf GeminiConfig) (*Gemini, error) {
	g := &Gemini{
		textModel:  firstNonEmpty(conf.TextModel, DefaultGeminiTextModel),
		imageModel: firstNonEmpty(conf.ImageModel, DefaultGeminiImageModel),
	}
	if conf.APIKey == "" {
		return g, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     conf.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: conf.HTTPClient,
	}
	if conf.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: conf.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Ready() error {
	if g.client == nil {
		return ErrMissingCredentials
	}
	return nil
}

func (g *Gemini) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := g.Ready(); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = g.textModel
		if req.Image != nil {
			model = g.imageModel
		}
	}

	config := &genai.GenerateContentConfig{}
	if req.Grounded {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}
	if req.Image != nil {
		config.ResponseModalities = []string{"TEXT", "IMAGE"}
		if req.Image.AspectRatio != "" {
			config.ImageConfig = &genai.ImageConfig{AspectRatio: req.Image.AspectRatio}
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	return fromGenAI(resp), nil
}

// fromGenAI flattens the first candidate into a Response.
func fromGenAI(resp *genai.GenerateContentResponse) *Response {
	out := &Response{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return out
	}
	candidate := resp.Candidates[0]

	if candidate.Content != nil {
		var text strings.Builder
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil {
				if len(part.InlineData.Data) > 0 {
					out.Images = append(out.Images, InlineImage{
						MIMEType: part.InlineData.MIMEType,
						Data:     part.InlineData.Data,
					})
				}
				continue
			}
			if part.Thought {
				continue
			}
			text.WriteString(part.Text)
		}
		out.Text = strings.TrimSpace(text.String())
	}

	if candidate.GroundingMetadata != nil {
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			out.Citations = append(out.Citations, Citation{
				Title: chunk.Web.Title,
				URL:   chunk.Web.URI,
			})
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
