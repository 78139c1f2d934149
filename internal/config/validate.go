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
	"errors"
	"fmt"
	"slices"
	"strings"

	"Unbewohnte/BoldBriefing/internal/article"
	"Unbewohnte/BoldBriefing/internal/inference"
)

// Validate reports every problem at once.
func (conf *Config) Validate() error {
	var errs []error

	if !slices.Contains(inference.Providers(), strings.ToLower(conf.Oracle.Provider)) {
		errs = append(errs, fmt.Errorf("oracle.provider: %w: %q", inference.ErrUnknownProvider, conf.Oracle.Provider))
	}

	if conf.Agent.IntervalSeconds == 0 {
		errs = append(errs, errors.New("agent.interval_seconds must be positive"))
	}
	if t := conf.Agent.VerificationThreshold; t < 1 || t > 100 {
		errs = append(errs, fmt.Errorf("agent.verification_threshold must be within 1..100, got %d", t))
	}
	if b := conf.Agent.PrimaryBias; b <= 0 || b > 1 {
		errs = append(errs, fmt.Errorf("agent.primary_bias must be within (0, 1], got %g", b))
	}
	if _, err := article.ParseRegion(conf.Agent.PrimaryRegion); err != nil {
		errs = append(errs, fmt.Errorf("agent.primary_region: %w", err))
	}
	if _, err := conf.Agent.Regions(); err != nil {
		errs = append(errs, fmt.Errorf("agent.default_regions: %w", err))
	}

	if conf.Web.Enabled && conf.Web.JWTSecret == "" {
		errs = append(errs, errors.New("web.jwt_secret is required when the web UI is enabled"))
	}
	if conf.Telegram.Enabled && (conf.Telegram.ApiToken == "" || conf.Telegram.ChatID == 0) {
		errs = append(errs, errors.New("telegram.api_token and telegram.chat_id are required when telegram is enabled"))
	}
	if conf.Sheets.Enabled && (conf.Sheets.CredentialsFile == "" || conf.Sheets.SpreadsheetID == "") {
		errs = append(errs, errors.New("sheets.credentials_file and sheets.spreadsheet_id are required when sheets are enabled"))
	}

	switch strings.ToLower(conf.Logging.Format) {
	case "", "auto", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", conf.Logging.Format))
	}

	return errors.Join(errs...)
}

// Regions parses the default region pool. An empty list stays empty.
func (a AgentConf) Regions() ([]article.Region, error) {
	regions := make([]article.Region, 0, len(a.DefaultRegions))
	for _, name := range a.DefaultRegions {
		region, err := article.ParseRegion(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		if !slices.Contains(regions, region) {
			regions = append(regions, region)
		}
	}
	return regions, nil
}

// PrimaryRegionValue returns the parsed primary region, falling back to
// Kenya.
func (a AgentConf) PrimaryRegionValue() article.Region {
	region, err := article.ParseRegion(a.PrimaryRegion)
	if err != nil {
		return article.Kenya
	}
	return region
}
