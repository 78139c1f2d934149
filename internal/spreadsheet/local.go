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

package spreadsheet

import (
	"bytes"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"Unbewohnte/BoldBriefing/internal/article"
)

const SheetTitle = "Briefs"

// Headers are the export columns, in order.
var Headers = []string{
	"Published", "Region", "Category", "Headline", "Summary",
	"Verification", "Impact", "Status", "Hashtags", "Sources", "Share",
}

// FromBriefs builds an in-memory Excel workbook with one row per brief.
func FromBriefs(briefs []article.Brief) (*bytes.Buffer, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetTitle)
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range Headers {
		cell := headerRow.AddCell()
		cell.Value = h
	}

	for _, b := range briefs {
		row := sheet.AddRow()

		cell := row.AddCell()
		cell.SetDate(b.Timestamp)

		row.AddCell().Value = string(b.Region)
		row.AddCell().Value = string(b.Category)
		row.AddCell().Value = b.Headline
		row.AddCell().Value = b.Summary

		cell = row.AddCell()
		cell.SetInt(b.VerificationScore)

		cell = row.AddCell()
		cell.SetInt(b.ImpactScore())

		row.AddCell().Value = string(b.Status)
		row.AddCell().Value = strings.Join(b.Hashtags, " ")
		row.AddCell().Value = sourceURLs(b.Sources)
		row.AddCell().Value = b.ShareURL()
	}

	buf := new(bytes.Buffer)
	if err := file.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func sourceURLs(sources []article.Source) string {
	urls := make([]string, 0, len(sources))
	for _, s := range sources {
		urls = append(urls, s.URL)
	}
	return strings.Join(urls, ";")
}
