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

package cli

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"Unbewohnte/BoldBriefing/internal/article"
	"Unbewohnte/BoldBriefing/internal/catalog"
)

const queryColumnWidth = 60

var catalogRegion string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the region and category search queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		queries := catalog.Default()
		if rt.conf.Agent.QueriesFile != "" {
			if err := queries.LoadOverlay(rt.conf.Agent.QueriesFile); err != nil {
				return err
			}
		}

		var only article.Region
		if catalogRegion != "" {
			only, err = article.ParseRegion(catalogRegion)
			if err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderCatalog(queries.Entries(), only))
		return nil
	},
}

func renderCatalog(entries []catalog.Entry, only article.Region) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Region", "Category", "Weight", "Query", "Image prompt"})

	for _, e := range entries {
		if only != "" && e.Region != only {
			continue
		}
		tw.AppendRow(table.Row{
			string(e.Region),
			string(e.Category),
			strconv.FormatFloat(e.Weight, 'f', 1, 64),
			e.Query,
			e.ImagePrompt,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, WidthMax: queryColumnWidth},
		{Number: 5, WidthMax: queryColumnWidth},
	})
	return tw.Render()
}

func init() {
	catalogCmd.Flags().StringVar(&catalogRegion, "region", "", "only list this region")
}
