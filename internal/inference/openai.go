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
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const DefaultOpenAIImageModel = openai.CreateImageModelDallE3

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
}

// OpenAI serves any OpenAI compatible endpoint. It has no search grounding,
// so grounded requests come back without citations.
type OpenAI struct {
	client     *openai.Client
	textModel  string
	imageModel string
}

var _ Oracle = (*OpenAI)(nil)

func NewOpenAI(conf OpenAIConfig) *OpenAI {
	p := &OpenAI{
		textModel:  firstNonEmpty(conf.TextModel, openai.GPT4oMini),
		imageModel: firstNonEmpty(conf.ImageModel, DefaultOpenAIImageModel),
	}
	if conf.APIKey == "" {
		return p
	}

	clientConfig := openai.DefaultConfig(conf.APIKey)
	if conf.BaseURL != "" {
		clientConfig.BaseURL = conf.BaseURL
	}
	p.client = openai.NewClientWithConfig(clientConfig)
	return p
}

func (p *OpenAI) Name() string { return "openai" }

func (p *OpenAI) Ready() error {
	if p.client == nil {
		return ErrMissingCredentials
	}
	return nil
}

func (p *OpenAI) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := p.Ready(); err != nil {
		return nil, err
	}
	if req.Image != nil {
		return p.generateImage(ctx, req)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: firstNonEmpty(req.Model, p.textModel),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		Temperature: 0.3,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai chat completion: no choices returned")
	}

	return &Response{Text: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}

func (p *OpenAI) generateImage(ctx context.Context, req Request) (*Response, error) {
	size := openai.CreateImageSize1024x1024
	if req.Image.AspectRatio == "16:9" {
		size = openai.CreateImageSize1792x1024
	}

	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          firstNonEmpty(req.Model, p.imageModel),
		N:              1,
		Size:           size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai create image: %w", err)
	}

	out := &Response{}
	for _, item := range resp.Data {
		if item.B64JSON == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("openai create image: decode payload: %w", err)
		}
		out.Images = append(out.Images, InlineImage{MIMEType: "image/png", Data: data})
	}
	return out, nil
}
