package main

import (
	"strings"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.Flow/internal/counter"
	"github.com/LISSConsulting/LISSTech.Flow/internal/journal"
	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
)

func TestFormatLogLine(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 5, 7, 0, time.UTC)
	at := func(e loop.LogEntry) loop.LogEntry {
		e.Timestamp = ts
		return e
	}

	tests := []struct {
		name  string
		entry loop.LogEntry
		want  string
	}{
		{
			name:  "dispatch",
			entry: at(dispatchEntry(3, counter.Action{Type: counter.Increment, Payload: 10}, 10)),
			want:  "[09:05:07] dispatch #3 [Counter] Increment 10 → state 10",
		},
		{
			name:  "tick",
			entry: at(loop.LogEntry{Kind: loop.LogTick, Tick: 4}),
			want:  "[09:05:07] tick     tick 4",
		},
		{
			name:  "items",
			entry: at(loop.LogEntry{Kind: loop.LogItems, Items: []int{1, 2}, Message: "http://x"}),
			want:  "[09:05:07] items    2 top stories [1 2] from http://x",
		},
		{
			name:  "created",
			entry: at(loop.LogEntry{Kind: loop.LogCreated, ItemID: 42}),
			want:  "[09:05:07] created  created item 42",
		},
		{
			name:  "error",
			entry: at(loop.LogEntry{Kind: loop.LogError, Message: "hackernews: boom"}),
			want:  "[09:05:07] error    ERROR hackernews: boom",
		},
		{
			name:  "info",
			entry: at(loop.LogEntry{Kind: loop.LogInfo, Message: "hello"}),
			want:  "[09:05:07] info     hello",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLogLine(tt.entry); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestFormatIDs(t *testing.T) {
	tests := []struct {
		ids   []int
		limit int
		want  string
	}{
		{nil, 10, "[]"},
		{[]int{1, 2, 3}, 10, "[1 2 3]"},
		{[]int{1, 2, 3, 4, 5}, 2, "[1 2 …+3]"},
	}
	for _, tt := range tests {
		if got := formatIDs(tt.ids, tt.limit); got != tt.want {
			t.Errorf("formatIDs(%v, %d) = %q, want %q", tt.ids, tt.limit, got, tt.want)
		}
	}
}

func TestFormatRecord(t *testing.T) {
	rec := journal.Record{
		Seq:       2,
		Timestamp: time.Date(2024, 3, 1, 9, 5, 7, 120_000_000, time.UTC),
		Action:    counter.Action{Type: counter.Decrement, Payload: 3},
		State:     7,
	}
	got := formatRecord(rec)
	for _, w := range []string{"2", "09:05:07.120", "[Counter] Decrement", "3 → 7"} {
		if !strings.Contains(got, w) {
			t.Errorf("formatRecord = %q, missing %q", got, w)
		}
	}
}
