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

// Package config holds the on-disk JSON configuration and its environment
// overlay.
package config

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"Unbewohnte/BoldBriefing/internal/article"
)

const DefaultPath = "config.json"

type OracleConf struct {
	Provider            string `json:"provider" mapstructure:"provider"`
	APIKey              string `json:"api_key" mapstructure:"api_key"`
	BaseURL             string `json:"base_url" mapstructure:"base_url"`
	TextModel           string `json:"text_model" mapstructure:"text_model"`
	ImageModel          string `json:"image_model" mapstructure:"image_model"`
	QueryTimeoutSeconds uint   `json:"query_timeout_seconds" mapstructure:"query_timeout_seconds"`
	RequestsPerMinute   int    `json:"requests_per_minute" mapstructure:"requests_per_minute"`
	CacheTTLSeconds     uint   `json:"cache_ttl_seconds" mapstructure:"cache_ttl_seconds"`
}

type AgentConf struct {
	IntervalSeconds       uint     `json:"interval_seconds" mapstructure:"interval_seconds"`
	RankingDelayMs        uint     `json:"ranking_delay_ms" mapstructure:"ranking_delay_ms"`
	PublishSettleMs       uint     `json:"publish_settle_ms" mapstructure:"publish_settle_ms"`
	PrimaryRegion         string   `json:"primary_region" mapstructure:"primary_region"`
	PrimaryBias           float64  `json:"primary_bias" mapstructure:"primary_bias"`
	VerificationThreshold int      `json:"verification_threshold" mapstructure:"verification_threshold"`
	DefaultRegions        []string `json:"default_regions" mapstructure:"default_regions"`
	QueriesFile           string   `json:"queries_file" mapstructure:"queries_file"`
	ResolveSourceTitles   bool     `json:"resolve_source_titles" mapstructure:"resolve_source_titles"`
}

type WebConf struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	Port      uint16 `json:"port" mapstructure:"port"`
	Username  string `json:"username" mapstructure:"username"`
	Password  string `json:"password" mapstructure:"password"`
	JWTSecret string `json:"jwt_secret" mapstructure:"jwt_secret"`
	StaticDir string `json:"static_dir" mapstructure:"static_dir"`
}

type AccountConf struct {
	Handle         string `json:"handle" mapstructure:"handle"`
	ConnectDelayMs uint   `json:"connect_delay_ms" mapstructure:"connect_delay_ms"`
}

type DBConf struct {
	File          string `json:"file" mapstructure:"file"`
	ArchiveBriefs bool   `json:"archive_briefs" mapstructure:"archive_briefs"`
}

type TelegramConf struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	ApiToken string `json:"api_token" mapstructure:"api_token"`
	ChatID   int64  `json:"chat_id" mapstructure:"chat_id"`
}

type SheetsConf struct {
	Enabled         bool   `json:"enabled" mapstructure:"enabled"`
	CredentialsFile string `json:"credentials_file" mapstructure:"credentials_file"`
	SpreadsheetID   string `json:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	SheetName       string `json:"sheet_name" mapstructure:"sheet_name"`
}

type LoggingConf struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
	File   string `json:"file" mapstructure:"file"`
}

type Config struct {
	Oracle   OracleConf   `json:"oracle" mapstructure:"oracle"`
	Agent    AgentConf    `json:"agent" mapstructure:"agent"`
	Web      WebConf      `json:"web" mapstructure:"web"`
	Account  AccountConf  `json:"account" mapstructure:"account"`
	DB       DBConf       `json:"database" mapstructure:"database"`
	Telegram TelegramConf `json:"telegram" mapstructure:"telegram"`
	Sheets   SheetsConf   `json:"sheets" mapstructure:"sheets"`
	Logging  LoggingConf  `json:"logging" mapstructure:"logging"`
	LockFile string       `json:"lock_file" mapstructure:"lock_file"`
	Debug    bool         `json:"debug" mapstructure:"debug"`

	path string
}

func DefaultConfig() *Config {
	return &Config{
		Oracle: OracleConf{
			Provider:            "gemini",
			QueryTimeoutSeconds: 120,
			RequestsPerMinute:   0,
			CacheTTLSeconds:     0,
		},
		Agent: AgentConf{
			IntervalSeconds:       60,
			RankingDelayMs:        800,
			PublishSettleMs:       2000,
			PrimaryRegion:         string(article.Kenya),
			PrimaryBias:           0.6,
			VerificationThreshold: 50,
			DefaultRegions:        []string{string(article.Kenya), string(article.EastAfrica)},
			QueriesFile:           "",
			ResolveSourceTitles:   false,
		},
		Web: WebConf{
			Enabled:   true,
			Port:      13337,
			Username:  "editor",
			Password:  "change-me",
			JWTSecret: "",
			StaticDir: "static",
		},
		Account: AccountConf{
			Handle:         "@BoldBriefing",
			ConnectDelayMs: 800,
		},
		DB: DBConf{
			File:          "BOLDBRIEFING.sqlite3",
			ArchiveBriefs: true,
		},
		Telegram: TelegramConf{
			Enabled:  false,
			ApiToken: "tg_api_token",
		},
		Sheets: SheetsConf{
			Enabled:         false,
			CredentialsFile: "secret.json",
			SpreadsheetID:   "spreadsheet_id",
			SheetName:       "Briefs",
		},
		Logging: LoggingConf{
			Level:  "info",
			Format: "auto",
		},
		LockFile: "boldbriefing.lock",
		Debug:    false,
	}
}

// Save writes the config as indented JSON. The oracle API key is never
// written out.
func (conf *Config) Save(filepath string) error {
	file, err := os.OpenFile(filepath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	c := *conf
	c.Oracle.APIKey = ""

	jsonBytes, err := json.MarshalIndent(&c, "", "\t")
	if err != nil {
		return err
	}

	_, err = file.Write(jsonBytes)

	conf.path = filepath

	return err
}

// ConfigFrom reads the file without any environment overlay.
func ConfigFrom(filepath string) (*Config, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	var conf Config
	err = json.Unmarshal(contents, &conf)
	if err != nil {
		return nil, err
	}

	conf.path = filepath

	return &conf, nil
}

// Path is the file the config was read from or last saved to.
func (conf *Config) Path() string { return conf.path }

func (o OracleConf) QueryTimeout() time.Duration {
	return time.Duration(o.QueryTimeoutSeconds) * time.Second
}

func (o OracleConf) CacheTTL() time.Duration {
	return time.Duration(o.CacheTTLSeconds) * time.Second
}

func (a AgentConf) Interval() time.Duration {
	return time.Duration(a.IntervalSeconds) * time.Second
}

func (a AgentConf) RankingDelay() time.Duration {
	return time.Duration(a.RankingDelayMs) * time.Millisecond
}

func (a AgentConf) PublishSettle() time.Duration {
	return time.Duration(a.PublishSettleMs) * time.Millisecond
}

func (a AccountConf) ConnectDelay() time.Duration {
	return time.Duration(a.ConnectDelayMs) * time.Millisecond
}
