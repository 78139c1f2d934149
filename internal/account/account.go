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

// Package account keeps the simulated social account connection.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"Unbewohnte/BoldBriefing/internal/journal"
)

const (
	// SettingKey is where the connection flag is persisted.
	SettingKey = "bold_briefing_connected"

	DefaultHandle       = "@BoldBriefing"
	DefaultConnectDelay = 800 * time.Millisecond
)

// Store persists the connection flag.
type Store interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key string, value string) error
	DeleteSetting(ctx context.Context, key string) error
}

type Config struct {
	Handle       string
	ConnectDelay time.Duration
	Logger       *slog.Logger
	// OnChange is called after every connect or disconnect.
	OnChange func(connected bool)
}

type Account struct {
	store    Store
	journal  *journal.Journal
	handle   string
	delay    time.Duration
	logger   *slog.Logger
	onChange func(bool)

	mu        sync.Mutex
	connected bool
}

// New restores the connection flag from store.
func New(ctx context.Context, store Store, j *journal.Journal, conf Config) (*Account, error) {
	if conf.Handle == "" {
		conf.Handle = DefaultHandle
	}
	if conf.ConnectDelay <= 0 {
		conf.ConnectDelay = DefaultConnectDelay
	}
	if conf.Logger == nil {
		conf.Logger = slog.New(slog.DiscardHandler)
	}

	a := &Account{
		store:    store,
		journal:  j,
		handle:   conf.Handle,
		delay:    conf.ConnectDelay,
		logger:   conf.Logger,
		onChange: conf.OnChange,
	}

	value, ok, err := store.GetSetting(ctx, SettingKey)
	if err != nil {
		return nil, fmt.Errorf("load connection flag: %w", err)
	}
	a.connected = ok && value == "true"
	return a, nil
}

func (a *Account) Handle() string { return a.handle }

func (a *Account) IsConnected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connected
}

// Connect waits for the gateway confirmation delay, then stores the flag.
func (a *Account) Connect(ctx context.Context) error {
	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.SetSetting(ctx, SettingKey, "true"); err != nil {
		return fmt.Errorf("persist connection flag: %w", err)
	}
	a.connected = true
	a.journal.Success("Secure connection established with X API Gateway.")
	a.logger.Info("Account connected", "handle", a.handle)
	a.notify(true)
	return nil
}

func (a *Account) Disconnect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.DeleteSetting(ctx, SettingKey); err != nil {
		return fmt.Errorf("clear connection flag: %w", err)
	}
	a.connected = false
	a.journal.Info("X Account disconnected.")
	a.logger.Info("Account disconnected", "handle", a.handle)
	a.notify(false)
	return nil
}

func (a *Account) notify(connected bool) {
	if a.onChange != nil {
		a.onChange(connected)
	}
}
