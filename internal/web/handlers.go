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

package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"Unbewohnte/BoldBriefing/internal/agent"
	"Unbewohnte/BoldBriefing/internal/article"
	"Unbewohnte/BoldBriefing/internal/feed"
	"Unbewohnte/BoldBriefing/internal/journal"
	"Unbewohnte/BoldBriefing/internal/spreadsheet"
)

const (
	defaultLogLimit = 200
	longPollTimeout = 25 * time.Second
	exportLimit     = 10000
)

var (
	errBadRequest   = errors.New("bad request")
	errNotConfirmed = errors.New("connection must be confirmed")
	errNoAccount    = errors.New("account is not configured")
)

type AccountStatus struct {
	Handle    string `json:"handle"`
	Connected bool   `json:"connected"`
}

type stateResponse struct {
	agent.State
	Account    *AccountStatus     `json:"account,omitempty"`
	AllRegions []article.Region   `json:"allRegions"`
	Categories []article.Category `json:"categories"`
}

type briefDetail struct {
	article.Brief
	SummaryHTML string `json:"summaryHtml"`
	ShareURL    string `json:"shareUrl"`
	ImpactScore int    `json:"impactScore"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, feed.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, agent.ErrCycleInProgress):
		status = http.StatusConflict
	case errors.Is(err, errNoAccount):
		status = http.StatusServiceUnavailable
	case errors.Is(err, article.ErrUnknownRegion),
		errors.Is(err, errBadRequest),
		errors.Is(err, errNotConfirmed):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) accountStatus() *AccountStatus {
	if s.deps.Account == nil {
		return nil
	}
	return &AccountStatus{
		Handle:    s.deps.Account.Handle(),
		Connected: s.deps.Account.IsConnected(),
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{
		State:      s.deps.Agent.Snapshot(),
		Account:    s.accountStatus(),
		AllRegions: article.Regions(),
		Categories: article.Categories(),
	})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	briefs := s.deps.Feed.List()
	if briefs == nil {
		briefs = []article.Brief{}
	}
	writeJSON(w, http.StatusOK, briefs)
}

func (s *Server) handleBrief(w http.ResponseWriter, r *http.Request) {
	brief, err := s.deps.Feed.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := article.RenderSummary(brief.Summary)
	if err != nil {
		s.logger.Warn("Failed to render summary", "brief", brief.ID, "error", err)
		summary = ""
	}

	writeJSON(w, http.StatusOK, briefDetail{
		Brief:       brief,
		SummaryHTML: summary,
		ShareURL:    brief.ShareURL(),
		ImpactScore: brief.ImpactScore(),
	})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	brief, err := s.deps.Feed.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, brief.ShareURL(), http.StatusFound)
}

// handleLogs pages through the journal. With wait=true it long-polls until
// an entry newer than since arrives.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var since uint64
	if raw := query.Get("since"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, errBadRequest)
			return
		}
		since = v
	}

	limit := defaultLogLimit
	if raw := query.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeError(w, errBadRequest)
			return
		}
		limit = v
	}

	wait := query.Get("wait") == "true"
	ctx := r.Context()
	if wait {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, longPollTimeout)
		defer cancel()
	}

	entries, err := s.deps.Journal.Fetch(ctx, since, limit, wait)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAutopilot(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Enabled == nil {
		writeError(w, errBadRequest)
		return
	}

	s.deps.Agent.SetAutopilot(*body.Enabled)
	writeJSON(w, http.StatusOK, s.deps.Agent.Snapshot())
}

func (s *Server) handleToggleRegion(w http.ResponseWriter, r *http.Request) {
	region, err := article.ParseRegion(mux.Vars(r)["region"])
	if err != nil {
		writeError(w, err)
		return
	}

	enabled := s.deps.Agent.ToggleRegion(region)
	writeJSON(w, http.StatusOK, map[string]any{
		"region":  region,
		"enabled": enabled,
		"regions": s.deps.Agent.Snapshot().Regions,
	})
}

func (s *Server) handleCycle(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Agent.Trigger(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	status := s.accountStatus()
	if status == nil {
		writeError(w, errNoAccount)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleConnect requires an explicit {"confirm": true} body, standing in
// for the confirmation dialog of the gateway.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if s.deps.Account == nil {
		writeError(w, errNoAccount)
		return
	}

	var body struct {
		Confirm bool `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !body.Confirm {
		writeError(w, errNotConfirmed)
		return
	}

	if err := s.deps.Account.Connect(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.accountStatus())
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if s.deps.Account == nil {
		writeError(w, errNoAccount)
		return
	}
	if err := s.deps.Account.Disconnect(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.accountStatus())
}

func (s *Server) handleDownloadXLSX(w http.ResponseWriter, r *http.Request) {
	var (
		briefs []article.Brief
		err    error
	)
	if s.deps.Archive != nil {
		briefs, err = s.deps.Archive.ListBriefs(r.Context(), exportLimit)
		if err != nil {
			writeError(w, err)
			return
		}
	} else {
		briefs = s.deps.Feed.List()
	}

	buf, err := spreadsheet.FromBriefs(briefs)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="BoldBriefing_Briefs.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
