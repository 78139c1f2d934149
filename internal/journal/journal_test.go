package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestAppendAssignsMonotonicSequence(t *testing.T) {
	t.Parallel()

	j := New()
	first := j.Info("one")
	second := j.Action("two")
	third := j.Error("three")

	if first.Seq != 1 || second.Seq != 2 || third.Seq != 3 {
		t.Fatalf("unexpected sequence numbers %d %d %d", first.Seq, second.Seq, third.Seq)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct ids, got %q and %q", first.ID, second.ID)
	}
	if second.Type != Action || third.Type != Error {
		t.Fatalf("unexpected types %s %s", second.Type, third.Type)
	}
	if j.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", j.Len())
	}
}

func TestSinceAndTail(t *testing.T) {
	t.Parallel()

	j := New()
	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		j.Info(msg)
	}

	cases := []struct {
		name  string
		since uint64
		limit int
		want  string
	}{
		{"all", 0, 0, "abcde"},
		{"after two", 2, 0, "cde"},
		{"limited", 1, 2, "bc"},
		{"caught up", 5, 0, ""},
		{"ahead", 9, 0, ""},
	}
	for _, tc := range cases {
		if got := join(j.Since(tc.since, tc.limit)); got != tc.want {
			t.Errorf("%s: Since(%d, %d) = %q, want %q", tc.name, tc.since, tc.limit, got, tc.want)
		}
	}

	if got := join(j.Tail(2)); got != "de" {
		t.Errorf("Tail(2) = %q", got)
	}
	if got := join(j.Tail(0)); got != "abcde" {
		t.Errorf("Tail(0) = %q", got)
	}
	if got := join(j.Tail(50)); got != "abcde" {
		t.Errorf("Tail(50) = %q", got)
	}
}

func TestReturnedEntriesAreCopies(t *testing.T) {
	t.Parallel()

	j := New()
	j.Info("original")
	entries := j.Since(0, 0)
	entries[0].Message = "changed"
	if j.Tail(1)[0].Message != "original" {
		t.Fatal("caller mutated journal storage")
	}
}

func TestFetchWaitsForNewEntries(t *testing.T) {
	t.Parallel()

	j := New()
	j.Info("seen")

	done := make(chan []Entry, 1)
	go func() {
		entries, err := j.Fetch(context.Background(), 1, 0, true)
		if err != nil {
			t.Errorf("Fetch: %v", err)
		}
		done <- entries
	}()

	select {
	case <-done:
		t.Fatal("Fetch returned before a new entry was appended")
	case <-time.After(50 * time.Millisecond):
	}

	j.Success("fresh")
	select {
	case entries := <-done:
		if join(entries) != "fresh" {
			t.Fatalf("unexpected entries %q", join(entries))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Fetch did not wake up")
	}
}

func TestFetchHonoursContext(t *testing.T) {
	t.Parallel()

	j := New()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	entries, err := j.Fetch(ctx, 0, 0, true)
	if err == nil || len(entries) != 0 {
		t.Fatalf("expected context error, got %v %v", entries, err)
	}

	entries, err = j.Fetch(context.Background(), 0, 0, false)
	if err != nil || entries != nil {
		t.Fatalf("non-waiting fetch on empty journal: %v %v", entries, err)
	}
}

func TestSinksObserveAppendOrder(t *testing.T) {
	t.Parallel()

	j := New()
	var (
		mu   sync.Mutex
		seen []uint64
	)
	j.AddSink(SinkFunc(func(e Entry) {
		mu.Lock()
		seen = append(seen, e.Seq)
		mu.Unlock()
	}))
	j.AddSink(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.Info("concurrent")
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 20 {
		t.Fatalf("expected 20 deliveries, got %d", len(seen))
	}
	for i, seq := range seen {
		if seq != uint64(i+1) {
			t.Fatalf("delivery %d has seq %d", i, seq)
		}
	}
}

func TestSlogSinkLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	j := New()
	j.AddSink(SlogSink(logger))
	j.Action("[INGESTOR] Scanning Kenya for Health...")
	j.Error("[SYSTEM FAILURE] Agent Cycle Error: boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}

	var first, second map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatal(err)
	}
	if first["level"] != "INFO" || first["type"] != "action" {
		t.Errorf("unexpected first record %v", first)
	}
	if second["level"] != "ERROR" || second["type"] != "error" {
		t.Errorf("unexpected second record %v", second)
	}
}

func join(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Message)
	}
	return b.String()
}
