package main

import (
	"fmt"
	"strings"

	"github.com/LISSConsulting/LISSTech.Flow/internal/counter"
	"github.com/LISSConsulting/LISSTech.Flow/internal/journal"
	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
)

// dispatchEntry describes the seq-th reduction of a, which produced state.
func dispatchEntry(seq int, a counter.Action, state int) loop.LogEntry {
	entry := loop.NewEntry(loop.LogDispatch, a.String())
	entry.Seq = seq
	entry.Action = a.Type
	entry.Payload = a.Payload
	entry.State = state
	return entry
}

// formatLogLine renders an entry as one plain line for non-TUI output.
func formatLogLine(entry loop.LogEntry) string {
	ts := entry.Timestamp.Format("15:04:05")
	var text string
	switch entry.Kind {
	case loop.LogDispatch:
		text = fmt.Sprintf("#%d %s %d → state %d", entry.Seq, entry.Action, entry.Payload, entry.State)
	case loop.LogTick:
		text = fmt.Sprintf("tick %d", entry.Tick)
	case loop.LogItems:
		text = fmt.Sprintf("%d top stories %s", len(entry.Items), formatIDs(entry.Items, 10))
		if entry.Message != "" {
			text += " from " + entry.Message
		}
	case loop.LogCreated:
		text = fmt.Sprintf("created item %d", entry.ItemID)
	case loop.LogError:
		text = "ERROR " + entry.Message
	default:
		text = entry.Message
	}
	return fmt.Sprintf("[%s] %-8s %s", ts, entry.Kind, text)
}

// formatIDs renders at most limit ids, noting how many were left out.
func formatIDs(ids []int, limit int) string {
	shown := ids
	if len(shown) > limit {
		shown = shown[:limit]
	}
	parts := make([]string, len(shown))
	for i, id := range shown {
		parts[i] = fmt.Sprint(id)
	}
	s := "[" + strings.Join(parts, " ")
	if rest := len(ids) - len(shown); rest > 0 {
		s += fmt.Sprintf(" …+%d", rest)
	}
	return s + "]"
}

// formatRecord renders a journal record as one line.
func formatRecord(rec journal.Record) string {
	return fmt.Sprintf("  %4d  %s  %-22s %4d → %d",
		rec.Seq, rec.Timestamp.Format("15:04:05.000"), rec.Action.Type, rec.Action.Payload, rec.State)
}
