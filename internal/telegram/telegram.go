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

// Package telegram posts published briefs to a Telegram chat.
package telegram

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"Unbewohnte/BoldBriefing/internal/article"
)

const (
	maxMessageRunes = 4096
	maxCaptionRunes = 1024
)

var ErrNotDataURL = errors.New("not a base64 data url")

type Config struct {
	ApiToken string `json:"api_token"`
	ChatID   int64  `json:"chat_id"`
	// Endpoint overrides tgbotapi.APIEndpoint.
	Endpoint   string       `json:"-"`
	HTTPClient *http.Client `json:"-"`
}

type Syndicator struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func New(conf Config) (*Syndicator, error) {
	endpoint := conf.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := conf.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	api, err := tgbotapi.NewBotAPIWithClient(conf.ApiToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("authorize telegram bot: %w", err)
	}

	return &Syndicator{
		api:    api,
		chatID: conf.ChatID,
	}, nil
}

func (s *Syndicator) Name() string { return "telegram" }

func (s *Syndicator) BotName() string { return s.api.Self.UserName }

// Syndicate sends the brief as a photo with a caption when it carries an
// image, and as a plain message otherwise.
func (s *Syndicator) Syndicate(ctx context.Context, brief article.Brief) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if brief.ImageURL != "" {
		data, err := DecodeDataURL(brief.ImageURL)
		if err == nil {
			photo := tgbotapi.NewPhoto(s.chatID, tgbotapi.FileBytes{Name: "brief.png", Bytes: data})
			photo.Caption = FormatCaption(brief)
			photo.ParseMode = tgbotapi.ModeHTML
			if _, err := s.api.Send(photo); err != nil {
				return fmt.Errorf("send photo: %w", err)
			}
			return nil
		}
	}

	msg := tgbotapi.NewMessage(s.chatID, FormatMessage(brief))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// FormatMessage renders the full brief as Telegram HTML.
func FormatMessage(b article.Brief) string {
	var sb strings.Builder
	writeHeader(&sb, b)
	sb.WriteString("\n\n")
	sb.WriteString(html.EscapeString(truncate(b.Summary, maxMessageRunes/2)))

	if len(b.Hashtags) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(html.EscapeString(strings.Join(b.Hashtags, " ")))
	}

	if len(b.Sources) > 0 {
		sb.WriteString("\n\nSources:")
		for _, src := range b.Sources {
			fmt.Fprintf(&sb, "\n- <a href=\"%s\">%s</a>", html.EscapeString(src.URL), html.EscapeString(src.Title))
		}
	}
	return sb.String()
}

// FormatCaption is the short form that fits a photo caption.
func FormatCaption(b article.Brief) string {
	var sb strings.Builder
	writeHeader(&sb, b)

	tags := strings.Join(b.Hashtags, " ")
	budget := maxCaptionRunes - len([]rune(b.Headline)) - len([]rune(tags)) - 64
	if budget > 0 && b.Summary != "" {
		sb.WriteString("\n\n")
		sb.WriteString(html.EscapeString(truncate(b.Summary, budget)))
	}
	if tags != "" {
		sb.WriteString("\n\n")
		sb.WriteString(html.EscapeString(tags))
	}
	return sb.String()
}

func writeHeader(sb *strings.Builder, b article.Brief) {
	fmt.Fprintf(sb, "<b>%s</b>\n", html.EscapeString(b.Headline))
	fmt.Fprintf(sb, "%s · %s · Verified %d%%", html.EscapeString(string(b.Region)), html.EscapeString(string(b.Category)), b.VerificationScore)
	if b.Status == article.StatusDeveloping {
		sb.WriteString(" · DEVELOPING")
	}
}

// DecodeDataURL returns the payload of a base64 data URL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, ErrNotDataURL
	}
	return base64.StdEncoding.DecodeString(payload)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
