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

package article

import (
	"net/url"
	"time"
)

type Status string

const (
	StatusPublished  Status = "published"
	StatusDeveloping Status = "developing"
)

// DefaultImpactScore is shown for briefs that carry no ranking score.
const DefaultImpactScore = 85

const shareIntentBase = "https://twitter.com/intent/tweet"

// PlaceholderSourceTitle names a citation whose real title is unknown.
const PlaceholderSourceTitle = "Source"

type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Brief is a published news item. Once in the feed it is never modified.
type Brief struct {
	ID                string    `json:"id"`
	Headline          string    `json:"headline"`
	Summary           string    `json:"summary"`
	Category          Category  `json:"category"`
	Region            Region    `json:"region"`
	Timestamp         time.Time `json:"timestamp"`
	Sources           []Source  `json:"sources"`
	Hashtags          []string  `json:"hashtags"`
	VerificationScore int       `json:"verificationScore"`
	TweetDraft        string    `json:"tweetDraft"`
	Status            Status    `json:"status"`
	ImageURL          string    `json:"imageUrl,omitempty"`
	RankingScore      int       `json:"rankingScore,omitempty"`
}

func (b Brief) ImpactScore() int {
	if b.RankingScore == 0 {
		return DefaultImpactScore
	}
	return b.RankingScore
}

// Clone returns a copy that shares no slices with b.
func (b Brief) Clone() Brief {
	c := b
	if b.Sources != nil {
		c.Sources = append(make([]Source, 0, len(b.Sources)), b.Sources...)
	}
	if b.Hashtags != nil {
		c.Hashtags = append(make([]string, 0, len(b.Hashtags)), b.Hashtags...)
	}
	return c
}

// ShareIntentURL builds a pre-filled share link for a tweet draft.
func ShareIntentURL(draft string) string {
	return shareIntentBase + "?text=" + url.QueryEscape(draft)
}

func (b Brief) ShareURL() string {
	return ShareIntentURL(b.TweetDraft)
}
