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

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces every overlay variable, e.g.
// BOLDBRIEFING_AGENT_INTERVAL_SECONDS.
const EnvPrefix = "BOLDBRIEFING"

// Plain variables honoured for the oracle key when nothing else set it.
var apiKeyVariables = []string{"API_KEY", "GEMINI_API_KEY"}

// Load reads path, creating it with defaults when missing, and overlays
// BOLDBRIEFING_* environment variables plus whatever flags were bound on v.
// A nil v gets a fresh viper instance.
func Load(path string, v *viper.Viper) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := DefaultConfig().Save(path); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
	}

	if v == nil {
		v = viper.New()
	}
	if err := registerDefaults(v, DefaultConfig()); err != nil {
		return nil, err
	}

	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	conf.applyKeyFallback()
	conf.path = path

	return &conf, nil
}

func (conf *Config) applyKeyFallback() {
	if conf.Oracle.APIKey != "" {
		return
	}
	for _, name := range apiKeyVariables {
		if value := os.Getenv(name); value != "" {
			conf.Oracle.APIKey = value
			return
		}
	}
}

// registerDefaults makes every key known to viper so that AutomaticEnv can
// override keys missing from the file.
func registerDefaults(v *viper.Viper, defaults *Config) error {
	raw, err := json.Marshal(defaults)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return err
	}
	setDefaults(v, "", tree)
	return nil
}

func setDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			setDefaults(v, key, nested)
			continue
		}
		v.SetDefault(key, value)
	}
}
