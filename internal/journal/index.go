package journal

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Flow/internal/counter"
)

// sessionIndex keeps a running summary of the records appended in this
// session, so Summary never has to re-read the file.
type sessionIndex struct {
	records    int
	firstAt    time.Time
	lastAt     time.Time
	lastState  int
	lastAction counter.Action
}

// onAppend updates the index after rec was written.
func (idx *sessionIndex) onAppend(rec Record) {
	if idx.records == 0 {
		idx.firstAt = rec.Timestamp
	}
	idx.records++
	idx.lastAt = rec.Timestamp
	idx.lastState = rec.State
	idx.lastAction = rec.Action
}

// Summary describes one journal session.
type Summary struct {
	SessionID  string
	Path       string
	Records    int
	FirstAt    time.Time
	LastAt     time.Time
	LastState  int
	LastAction counter.Action
}
