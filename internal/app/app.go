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

// Package app assembles the agent and its collaborators from a config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"Unbewohnte/BoldBriefing/internal/account"
	"Unbewohnte/BoldBriefing/internal/agent"
	"Unbewohnte/BoldBriefing/internal/catalog"
	"Unbewohnte/BoldBriefing/internal/compose"
	"Unbewohnte/BoldBriefing/internal/config"
	"Unbewohnte/BoldBriefing/internal/db"
	"Unbewohnte/BoldBriefing/internal/feed"
	"Unbewohnte/BoldBriefing/internal/illustrate"
	"Unbewohnte/BoldBriefing/internal/inference"
	"Unbewohnte/BoldBriefing/internal/journal"
	"Unbewohnte/BoldBriefing/internal/scout"
	"Unbewohnte/BoldBriefing/internal/sources"
	"Unbewohnte/BoldBriefing/internal/spreadsheet"
	"Unbewohnte/BoldBriefing/internal/telegram"
	"Unbewohnte/BoldBriefing/internal/web"
)

// sourceRequestsPerSecond keeps title lookups polite towards a single site.
const sourceRequestsPerSecond = 1

type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Oracle  inference.Oracle
	Catalog *catalog.Catalog
	Journal *journal.Journal
	Feed    *feed.Store
	DB      *db.DB
	Account *account.Account
	Agent   *agent.Agent
	Hub     *web.Hub

	Syndicators []agent.Syndicator
}

// Options lets callers and tests replace the oracle.
type Options struct {
	Oracle inference.Oracle
}

func New(ctx context.Context, conf *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	app := &App{
		Config:  conf,
		Logger:  logger,
		Journal: journal.New(),
		Feed:    feed.New(),
		Hub:     web.NewHub(logger.With("component", "web")),
	}
	app.Journal.AddSink(journal.SlogSink(logger.With("component", "journal")))

	queries := catalog.Default()
	if conf.Agent.QueriesFile != "" {
		if err := queries.LoadOverlay(conf.Agent.QueriesFile); err != nil {
			return nil, err
		}
	}
	app.Catalog = queries

	app.Oracle = opts.Oracle
	if app.Oracle == nil {
		oracle, err := inference.New(ctx, inference.Config{
			Provider:          conf.Oracle.Provider,
			APIKey:            conf.Oracle.APIKey,
			BaseURL:           conf.Oracle.BaseURL,
			TextModel:         conf.Oracle.TextModel,
			ImageModel:        conf.Oracle.ImageModel,
			QueryTimeout:      conf.Oracle.QueryTimeout(),
			RequestsPerMinute: conf.Oracle.RequestsPerMinute,
			CacheTTL:          conf.Oracle.CacheTTL(),
		})
		if err != nil {
			return nil, fmt.Errorf("build oracle: %w", err)
		}
		app.Oracle = oracle
	}

	database, err := db.NewDB(conf.DB.File)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	app.DB = database

	app.Account, err = account.New(ctx, database, app.Journal, account.Config{
		Handle:       conf.Account.Handle,
		ConnectDelay: conf.Account.ConnectDelay(),
		Logger:       logger.With("component", "account"),
		OnChange: func(connected bool) {
			app.Hub.Publish(web.AccountMessage(app.Account.Handle(), connected))
		},
	})
	if err != nil {
		database.Close()
		return nil, err
	}

	app.Syndicators = app.buildSyndicators(ctx)

	regions, err := conf.Agent.Regions()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("default regions: %w", err)
	}

	deps := agent.Deps{
		Topics:         scout.New(app.Oracle, queries, conf.Oracle.TextModel),
		Composer:       compose.New(app.Oracle, conf.Oracle.TextModel),
		Illustrator:    illustrate.New(app.Oracle, queries, conf.Oracle.ImageModel),
		Feed:           app.Feed,
		Journal:        app.Journal,
		Preflight:      app.Oracle,
		Syndicators:    app.Syndicators,
		Interval:       conf.Agent.Interval(),
		RankingDelay:   conf.Agent.RankingDelay(),
		SettleDelay:    conf.Agent.PublishSettle(),
		PrimaryRegion:  conf.Agent.PrimaryRegionValue(),
		PrimaryBias:    conf.Agent.PrimaryBias,
		Threshold:      conf.Agent.VerificationThreshold,
		DefaultRegions: regions,
		Logger:         logger.With("component", "agent"),
	}
	if conf.Agent.ResolveSourceTitles {
		deps.Resolver = sources.New(sources.Config{
			RequestsPerSecond: sourceRequestsPerSecond,
			Logger:            logger.With("component", "sources"),
		})
	}
	if conf.DB.ArchiveBriefs {
		deps.Archive = database
	}
	app.Agent = agent.New(deps)

	return app, nil
}

// buildSyndicators connects the configured outlets. One that fails to
// start is logged and left out.
func (app *App) buildSyndicators(ctx context.Context) []agent.Syndicator {
	var out []agent.Syndicator
	conf := app.Config

	if conf.Telegram.Enabled {
		tg, err := telegram.New(telegram.Config{
			ApiToken: conf.Telegram.ApiToken,
			ChatID:   conf.Telegram.ChatID,
		})
		if err != nil {
			app.Logger.Error("Telegram syndication disabled", "error", err)
		} else {
			app.Logger.Info("Telegram syndication enabled", "bot", tg.BotName())
			out = append(out, tg)
		}
	}

	if conf.Sheets.Enabled {
		sheets, err := spreadsheet.NewGoogleSheetsClient(ctx, spreadsheet.Config{
			CredentialsFile: conf.Sheets.CredentialsFile,
			SpreadsheetID:   conf.Sheets.SpreadsheetID,
			SheetName:       conf.Sheets.SheetName,
		})
		if err != nil {
			app.Logger.Error("Google Sheets syndication disabled", "error", err)
		} else {
			out = append(out, sheets)
		}
	}

	return out
}

// WebServer builds the dashboard server on top of the app's components.
func (app *App) WebServer() *web.Server {
	conf := app.Config.Web
	deps := web.Deps{
		Agent:   app.Agent,
		Feed:    app.Feed,
		Journal: app.Journal,
		Account: app.Account,
		Hub:     app.Hub,
	}
	if app.Config.DB.ArchiveBriefs {
		deps.Archive = app.DB
	}
	return web.New(web.Config{
		Port:      conf.Port,
		Username:  conf.Username,
		Password:  conf.Password,
		JWTSecret: conf.JWTSecret,
		StaticDir: conf.StaticDir,
		Logger:    app.Logger.With("component", "web"),
	}, deps)
}

// Close stops the agent and releases the database.
func (app *App) Close() error {
	var errs []error
	if app.Agent != nil {
		app.Agent.Close()
	}
	if app.DB != nil {
		errs = append(errs, app.DB.Close())
	}
	return errors.Join(errs...)
}
