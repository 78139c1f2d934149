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

// Package journal is the operator facing log: an append-only, unbounded
// sequence of short messages shown in the dashboard console.
package journal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	Info    Type = "info"
	Success Type = "success"
	Error   Type = "error"
	Action  Type = "action"
)

type Entry struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Type      Type      `json:"type"`
}

// Sink receives every appended entry, in order, outside the journal lock.
type Sink interface {
	Append(Entry)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Entry)

func (f SinkFunc) Append(e Entry) { f(e) }

type Journal struct {
	mu      sync.Mutex
	cond    *sync.Cond
	entries []Entry
	sinks   []Sink
	// deliver serializes sink fan-out so sinks observe append order.
	deliver sync.Mutex
	now     func() time.Time
}

func New() *Journal {
	j := &Journal{now: time.Now}
	j.cond = sync.NewCond(&j.mu)
	return j
}

// AddSink wires a sink that receives entries appended from now on.
func (j *Journal) AddSink(sink Sink) {
	if sink == nil {
		return
	}
	j.mu.Lock()
	j.sinks = append(j.sinks, sink)
	j.mu.Unlock()
}

func (j *Journal) Append(typ Type, message string) Entry {
	j.deliver.Lock()
	defer j.deliver.Unlock()

	j.mu.Lock()
	entry := Entry{
		ID:        uuid.NewString(),
		Seq:       uint64(len(j.entries)) + 1,
		Message:   message,
		Timestamp: j.now(),
		Type:      typ,
	}
	j.entries = append(j.entries, entry)
	sinks := append([]Sink(nil), j.sinks...)
	j.cond.Broadcast()
	j.mu.Unlock()

	for _, sink := range sinks {
		sink.Append(entry)
	}
	return entry
}

func (j *Journal) Info(message string) Entry    { return j.Append(Info, message) }
func (j *Journal) Success(message string) Entry { return j.Append(Success, message) }
func (j *Journal) Error(message string) Entry   { return j.Append(Error, message) }
func (j *Journal) Action(message string) Entry  { return j.Append(Action, message) }

func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// Since returns up to limit entries with a sequence greater than since.
// A non-positive limit returns everything.
func (j *Journal) Since(since uint64, limit int) []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.sinceLocked(since, limit)
}

// Tail returns the last n entries, oldest first.
func (j *Journal) Tail(n int) []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	start := 0
	if n > 0 && len(j.entries) > n {
		start = len(j.entries) - n
	}
	return append([]Entry(nil), j.entries[start:]...)
}

// Fetch is Since that, when wait is set, blocks until at least one newer
// entry exists or ctx ends.
func (j *Journal) Fetch(ctx context.Context, since uint64, limit int, wait bool) ([]Entry, error) {
	stop := make(chan struct{})
	defer close(stop)
	if wait {
		go func() {
			select {
			case <-ctx.Done():
				j.mu.Lock()
				j.cond.Broadcast()
				j.mu.Unlock()
			case <-stop:
			}
		}()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	for {
		entries := j.sinceLocked(since, limit)
		if len(entries) > 0 || !wait {
			return entries, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		j.cond.Wait()
	}
}

func (j *Journal) sinceLocked(since uint64, limit int) []Entry {
	if since >= uint64(len(j.entries)) {
		return nil
	}
	out := j.entries[since:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return append([]Entry(nil), out...)
}
