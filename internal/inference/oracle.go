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

// Package inference talks to generative models. Every backend answers the
// same Request with the same Response shape so the pipeline never cares which
// vendor produced a topic, a draft or an illustration.
package inference

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

var (
	ErrMissingCredentials = errors.New("API key missing")
	ErrUnknownProvider    = errors.New("unknown inference provider")
)

// ImageOptions asks the backend for an image instead of text.
type ImageOptions struct {
	AspectRatio string
}

type Request struct {
	// Model overrides the backend's default model when set.
	Model  string
	Prompt string
	// Grounded enables web search augmentation when the backend supports it.
	Grounded bool
	// JSON requests structured output.
	JSON  bool
	Image *ImageOptions
}

type Citation struct {
	Title string
	URL   string
}

type InlineImage struct {
	MIMEType string
	Data     []byte
}

type Response struct {
	Text      string
	Citations []Citation
	Images    []InlineImage
}

type Oracle interface {
	Name() string
	// Ready reports ErrMissingCredentials when the backend cannot be called.
	Ready() error
	Generate(ctx context.Context, req Request) (*Response, error)
}

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// CleanText removes reasoning blocks some local models prepend to answers.
func CleanText(input string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(input, ""))
}
