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
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"Unbewohnte/BoldBriefing/internal/config"
)

const redacted = "********"

var (
	configForce      bool
	configShowFormat string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage BoldBriefing configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil && !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", cfgFile)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		if err := config.DefaultConfig().Save(cfgFile); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", cfgFile)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		out, err := renderConfig(rt.conf, configShowFormat)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

// renderConfig goes through JSON first so every format uses the same key
// names as the config file.
func renderConfig(conf *config.Config, format string) (string, error) {
	masked := *conf
	mask(&masked.Oracle.APIKey)
	mask(&masked.Web.Password)
	mask(&masked.Web.JWTSecret)
	mask(&masked.Telegram.ApiToken)

	raw, err := json.MarshalIndent(&masked, "", "  ")
	if err != nil {
		return "", err
	}

	switch format {
	case "", "json":
		return string(raw) + "\n", nil
	}

	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return "", err
	}

	var out []byte
	switch format {
	case "yaml":
		out, err = yaml.Marshal(tree)
	case "toml":
		out, err = toml.Marshal(tree)
	default:
		return "", fmt.Errorf("unknown format %q (json, yaml, toml)", format)
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func mask(s *string) {
	if *s != "" {
		*s = redacted
	}
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "json", "output format (json, yaml, toml)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
