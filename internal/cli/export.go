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
	"os"

	"github.com/spf13/cobra"

	"Unbewohnte/BoldBriefing/internal/db"
	"Unbewohnte/BoldBriefing/internal/spreadsheet"
)

var (
	exportOut   string
	exportLimit uint64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write archived briefs to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		database, err := db.NewDB(rt.conf.DB.File)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer database.Close()

		briefs, err := database.ListBriefs(cmd.Context(), exportLimit)
		if err != nil {
			return err
		}

		buf, err := spreadsheet.FromBriefs(briefs)
		if err != nil {
			return fmt.Errorf("build workbook: %w", err)
		}
		if err := os.WriteFile(exportOut, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", exportOut, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d briefs to %s\n", len(briefs), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "BoldBriefing_Briefs.xlsx", "output file")
	exportCmd.Flags().Uint64Var(&exportLimit, "limit", 0, "newest briefs to export, 0 for all")
}
