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

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"Unbewohnte/BoldBriefing/internal/article"
)

var briefColumns = []string{
	"id",
	"headline",
	"summary",
	"category",
	"region",
	"published_at",
	"sources",
	"hashtags",
	"verification_score",
	"tweet_draft",
	"status",
	"image_url",
	"ranking_score",
}

// SaveBrief archives a published brief. Saving the same id twice keeps the
// latest copy.
func (db *DB) SaveBrief(ctx context.Context, brief article.Brief) error {
	sourcesJSON, err := json.Marshal(brief.Sources)
	if err != nil {
		return err
	}
	hashtagsJSON, err := json.Marshal(brief.Hashtags)
	if err != nil {
		return err
	}

	_, err = db.exec(ctx, sq.Replace("briefs").
		Columns(briefColumns...).
		Values(
			brief.ID,
			brief.Headline,
			brief.Summary,
			string(brief.Category),
			string(brief.Region),
			brief.Timestamp.UnixMilli(),
			string(sourcesJSON),
			string(hashtagsJSON),
			brief.VerificationScore,
			brief.TweetDraft,
			string(brief.Status),
			brief.ImageURL,
			brief.RankingScore,
		),
	)
	if err != nil {
		return fmt.Errorf("archive brief %s: %w", brief.ID, err)
	}
	return nil
}

// ListBriefs returns archived briefs, newest first. A zero limit returns all
// of them.
func (db *DB) ListBriefs(ctx context.Context, limit uint64) ([]article.Brief, error) {
	b := sq.Select(briefColumns...).From("briefs").OrderBy("published_at DESC", "id")
	if limit > 0 {
		b = b.Limit(limit)
	}

	rows, err := db.query(ctx, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var briefs []article.Brief
	for rows.Next() {
		var (
			brief                     article.Brief
			category, region, status  string
			publishedAt               int64
			sourcesJSON, hashtagsJSON sql.NullString
			tweetDraft, imageURL      sql.NullString
		)
		if err := rows.Scan(
			&brief.ID,
			&brief.Headline,
			&brief.Summary,
			&category,
			&region,
			&publishedAt,
			&sourcesJSON,
			&hashtagsJSON,
			&brief.VerificationScore,
			&tweetDraft,
			&status,
			&imageURL,
			&brief.RankingScore,
		); err != nil {
			return nil, err
		}

		brief.Category = article.Category(category)
		brief.Region = article.Region(region)
		brief.Status = article.Status(status)
		brief.Timestamp = time.UnixMilli(publishedAt)
		brief.TweetDraft = tweetDraft.String
		brief.ImageURL = imageURL.String

		if sourcesJSON.Valid && sourcesJSON.String != "" {
			if err := json.Unmarshal([]byte(sourcesJSON.String), &brief.Sources); err != nil {
				return nil, fmt.Errorf("decode sources of %s: %w", brief.ID, err)
			}
		}
		if hashtagsJSON.Valid && hashtagsJSON.String != "" {
			if err := json.Unmarshal([]byte(hashtagsJSON.String), &brief.Hashtags); err != nil {
				return nil, fmt.Errorf("decode hashtags of %s: %w", brief.ID, err)
			}
		}

		briefs = append(briefs, brief)
	}
	return briefs, rows.Err()
}

func (db *DB) CountBriefs(ctx context.Context) (int, error) {
	row, err := db.queryRow(ctx, sq.Select("COUNT(*)").From("briefs"))
	if err != nil {
		return 0, err
	}

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (db *DB) DeleteAllBriefs(ctx context.Context) error {
	_, err := db.exec(ctx, sq.Delete("briefs"))
	return err
}
