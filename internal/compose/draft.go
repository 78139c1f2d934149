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

package compose

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"Unbewohnte/BoldBriefing/internal/article"
	"Unbewohnte/BoldBriefing/internal/inference"
)

// Defaults applied field by field when the model output lacks a usable value.
const (
	DefaultHeadline          = "Update"
	DefaultVerificationScore = 50
	DefaultRankingScore      = 70
	DefaultStatus            = article.StatusDeveloping
)

// Draft is the validated model payload for one brief.
type Draft struct {
	Headline          string
	Summary           string
	TweetDraft        string
	Hashtags          []string
	VerificationScore int
	Status            article.Status
	RankingScore      int
}

// ParseDraft validates untrusted model output. It never fails: anything
// missing, mistyped or empty resolves to its default, and the summary falls
// back to the topic text.
func ParseDraft(raw string, topic string) Draft {
	draft := Draft{
		Headline:          DefaultHeadline,
		Summary:           topic,
		Hashtags:          []string{},
		VerificationScore: DefaultVerificationScore,
		Status:            DefaultStatus,
		RankingScore:      DefaultRankingScore,
	}

	fields := decodeObject(raw)
	if fields == nil {
		return draft
	}

	if s, ok := stringField(fields["headline"]); ok {
		draft.Headline = s
	}
	if s, ok := stringField(fields["summary"]); ok {
		draft.Summary = s
	}
	if s, ok := stringField(fields["tweetDraft"]); ok {
		draft.TweetDraft = s
	}
	if tags, ok := hashtagsField(fields["hashtags"]); ok {
		draft.Hashtags = tags
	}
	if n, ok := scoreField(fields["verificationScore"]); ok {
		draft.VerificationScore = n
	}
	if n, ok := scoreField(fields["rankingScore"]); ok {
		draft.RankingScore = n
	}
	if s, ok := stringField(fields["status"]); ok {
		switch article.Status(strings.ToLower(s)) {
		case article.StatusPublished:
			draft.Status = article.StatusPublished
		case article.StatusDeveloping:
			draft.Status = article.StatusDeveloping
		}
	}

	return draft
}

// decodeObject finds the JSON object in raw, tolerating reasoning blocks,
// code fences and chatter around it.
func decodeObject(raw string) map[string]json.RawMessage {
	trimmed := stripCodeFence(inference.CleanText(raw))
	if trimmed == "" {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err == nil {
		return fields
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return nil
	}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &fields); err != nil {
		return nil
	}
	return fields
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func hashtagsField(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// A single space separated string is a common model slip.
		if s, ok := stringField(raw); ok {
			return normalizeHashtags(strings.Fields(s)), true
		}
		return nil, false
	}

	var words []string
	for _, item := range items {
		if s, ok := stringField(item); ok {
			words = append(words, s)
		}
	}
	return normalizeHashtags(words), true
}

func normalizeHashtags(words []string) []string {
	tags := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(strings.TrimRight(w, ","))
		if w == "" || w == "#" {
			continue
		}
		if !strings.HasPrefix(w, "#") {
			w = "#" + w
		}
		tags = append(tags, w)
	}
	return tags
}

// scoreField accepts a JSON number or a numeric string such as "87" or
// "87%", rounds it and clamps it to 0..100.
func scoreField(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		s, ok := stringField(raw)
		if !ok {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	n := int(math.Round(f))
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return n, true
}
