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

// Package spreadsheet exports briefs to Excel and appends them to a Google
// Sheet.
package spreadsheet

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"Unbewohnte/BoldBriefing/internal/article"
)

type Config struct {
	CredentialsFile string `json:"credentials_file"`
	SpreadsheetID   string `json:"spreadsheet_id"`
	SheetName       string `json:"sheet_name"`
}

// GoogleSheetsClient appends every published brief as a new row.
type GoogleSheetsClient struct {
	service       *sheets.Service
	SpreadsheetID string
	SheetName     string
}

func NewGoogleSheetsClient(ctx context.Context, conf Config) (*GoogleSheetsClient, error) {
	credentials, err := os.ReadFile(conf.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read service account credentials: %w", err)
	}

	jwtConf, err := google.JWTConfigFromJSON(credentials, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("create JWT config: %w", err)
	}

	return NewGoogleSheetsClientWithOptions(ctx, conf, option.WithHTTPClient(jwtConf.Client(ctx)))
}

// NewGoogleSheetsClientWithOptions builds a client from explicit API
// options, bypassing service account credentials.
func NewGoogleSheetsClientWithOptions(ctx context.Context, conf Config, opts ...option.ClientOption) (*GoogleSheetsClient, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create Google Sheets service: %w", err)
	}

	sheetName := conf.SheetName
	if sheetName == "" {
		sheetName = SheetTitle
	}
	return &GoogleSheetsClient{
		service:       srv,
		SpreadsheetID: conf.SpreadsheetID,
		SheetName:     sheetName,
	}, nil
}

func (gsc *GoogleSheetsClient) Name() string { return "sheets" }

func (gsc *GoogleSheetsClient) Syndicate(ctx context.Context, brief article.Brief) error {
	return gsc.AddBrief(ctx, brief)
}

func (gsc *GoogleSheetsClient) AddBrief(ctx context.Context, brief article.Brief) error {
	row := &sheets.ValueRange{
		Values: [][]interface{}{briefRow(brief)},
	}

	_, err := gsc.service.Spreadsheets.Values.Append(
		gsc.SpreadsheetID,
		gsc.SheetName+"!A:K",
		row,
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append brief row: %w", err)
	}
	return nil
}

func formatDate(brief article.Brief) string {
	t := brief.Timestamp.UTC()
	return fmt.Sprintf("%d.%d.%d %02d:%02d", t.Day(), t.Month(), t.Year(), t.Hour(), t.Minute())
}

func briefRow(b article.Brief) []interface{} {
	return []interface{}{
		formatDate(b),
		string(b.Region),
		string(b.Category),
		b.Headline,
		b.Summary,
		b.VerificationScore,
		b.ImpactScore(),
		string(b.Status),
		strings.Join(b.Hashtags, " "),
		sourceURLs(b.Sources),
		b.ShareURL(),
	}
}
