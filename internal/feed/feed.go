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

// Package feed keeps the in-memory list of published briefs, newest first.
package feed

import (
	"errors"
	"sync"

	"Unbewohnte/BoldBriefing/internal/article"
)

var ErrNotFound = errors.New("brief not found")

type Store struct {
	mu     sync.RWMutex
	briefs []article.Brief
}

func New() *Store {
	return &Store{}
}

// Prepend puts brief at the head of the feed.
func (s *Store) Prepend(brief article.Brief) {
	brief = brief.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.briefs = append(s.briefs, article.Brief{})
	copy(s.briefs[1:], s.briefs)
	s.briefs[0] = brief
}

// List returns copies of every brief, newest first.
func (s *Store) List() []article.Brief {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]article.Brief, len(s.briefs))
	for i, b := range s.briefs {
		out[i] = b.Clone()
	}
	return out
}

func (s *Store) Get(id string) (article.Brief, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.briefs {
		if b.ID == id {
			return b.Clone(), nil
		}
	}
	return article.Brief{}, ErrNotFound
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.briefs)
}
