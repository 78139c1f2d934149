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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"Unbewohnte/BoldBriefing/internal/app"
)

const shutdownTimeout = 10 * time.Second

var serveAutopilot bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the agent and the dashboard until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.conf.Validate(); err != nil {
			return fmt.Errorf("invalid config %s:\n%w", rt.conf.Path(), err)
		}

		lock := flock.New(rt.conf.LockFile)
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire lock: %w", err)
		}
		if !locked {
			return errors.New("another boldbriefing instance is already running")
		}
		defer lock.Unlock()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, rt.conf, rt.logger, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		if rt.conf.Web.Enabled {
			server := a.WebServer()
			if err := server.Start(); err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					rt.logger.Error("Web server shutdown failed", "error", err)
				}
			}()
		}

		if serveAutopilot {
			a.Agent.SetAutopilot(true)
		}
		rt.logger.Info("BoldBriefing is running",
			"autopilot", a.Agent.Autopilot(),
			"interval", a.Agent.Interval(),
			"oracle", a.Oracle.Name(),
			"syndicators", len(a.Syndicators),
		)

		<-ctx.Done()
		rt.logger.Info("Shutting down")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveAutopilot, "autopilot", false, "engage auto-pilot on start")
}
