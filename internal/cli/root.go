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

// Package cli is the boldbriefing command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"Unbewohnte/BoldBriefing/internal/config"
	"Unbewohnte/BoldBriefing/internal/logging"
)

// Version is overridden at build time with -ldflags.
var Version = "v0.1.0"

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "boldbriefing",
	Short: "BoldBriefing - autonomous news briefing agent",
	Long: `BoldBriefing watches regional news for the single most important story,
verifies it, writes a short brief with an illustration and publishes it to a
live feed.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (BOLDBRIEFING_*, API_KEY)
3. Config file (config.json)
4. Defaults`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "boldbriefing %s\n", Version)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (auto, text, json)")
	_ = v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cycleCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(modelsCmd)
}

type runtime struct {
	conf   *config.Config
	logger *slog.Logger
	closer io.Closer
}

func (rt *runtime) Close() error { return rt.closer.Close() }

// loadRuntime reads .env, the config file and its overlay, then builds the
// logger.
func loadRuntime(cmd *cobra.Command) (*runtime, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	conf, err := config.Load(cfgFile, v)
	if err != nil {
		return nil, err
	}

	level := conf.Logging.Level
	if conf.Debug {
		level = "debug"
	}
	logger, closer, err := logging.New(logging.Options{
		Level:  level,
		Format: conf.Logging.Format,
		File:   conf.Logging.File,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	return &runtime{conf: conf, logger: logger, closer: closer}, nil
}
