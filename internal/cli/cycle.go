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
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"Unbewohnte/BoldBriefing/internal/agent"
	"Unbewohnte/BoldBriefing/internal/app"
	"Unbewohnte/BoldBriefing/internal/article"
)

var (
	cycleRegion   string
	cycleCategory string
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run a single briefing cycle and print the journal",
	Long: `Run one scan, rank, verify, illustrate and publish cycle without the
dashboard. Without --region and --category the target is picked the same way
auto-pilot picks it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (cycleRegion == "") != (cycleCategory == "") {
			return errors.New("--region and --category must be given together")
		}

		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		rt.conf.Web.Enabled = false
		if err := rt.conf.Validate(); err != nil {
			return fmt.Errorf("invalid config %s:\n%w", rt.conf.Path(), err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, rt.conf, rt.logger, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		a.Journal.AddSink(consoleSink(cmd.OutOrStdout()))

		var (
			report agent.Report
			runErr error
		)
		if cycleRegion != "" {
			region, err := article.ParseRegion(cycleRegion)
			if err != nil {
				return err
			}
			category, err := article.ParseCategory(cycleCategory)
			if err != nil {
				return err
			}
			report, runErr = a.Agent.RunTarget(ctx, region, category)
		} else {
			report, runErr = a.Agent.RunCycle(ctx)
		}
		if runErr != nil {
			return fmt.Errorf("cycle %s: %w", report.Outcome, runErr)
		}

		if report.Brief != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s (%s)\n", report.Brief.Headline, report.Outcome)
			fmt.Fprintln(cmd.OutOrStdout(), report.Brief.ShareURL())
		}
		return nil
	},
}

func init() {
	cycleCmd.Flags().StringVar(&cycleRegion, "region", "", "region to scan (name or slug)")
	cycleCmd.Flags().StringVar(&cycleCategory, "category", "", "category to scan (name or slug)")
}
