package command

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

const (
	markerMatchStarted     = "-|-*|MATCH STARTED|*-|-"
	markerMatchStartFailed = "-|-*|MATCH START FAILED|*-|-"
	markerGtpFormat        = "-|-*|GTP %s|*-|-"
	markerStoryFormat      = "-|-*|STORY_RESULT %s|*-|-"
)

// MarkerWriter prints the markers the front end parses, one whole line per write.
type MarkerWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewMarkerWriter(w io.Writer) *MarkerWriter {
	return &MarkerWriter{w: w}
}

func (m *MarkerWriter) writeLine(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, _ = io.WriteString(m.w, line+"\n")
}

func (m *MarkerWriter) writeJSON(format string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.writeLine(fmt.Sprintf(format, data))
	return nil
}

func (m *MarkerWriter) MatchStarted() {
	m.writeLine(markerMatchStarted)
}

func (m *MarkerWriter) MatchStartFailed() {
	m.writeLine(markerMatchStartFailed)
}

// Gtp reports a telemetry snapshot.
func (m *MarkerWriter) Gtp(packet any) error {
	return m.writeJSON(markerGtpFormat, packet)
}

// StoryResult reports the updated save state after a challenge.
func (m *MarkerWriter) StoryResult(saveState any) error {
	return m.writeJSON(markerStoryFormat, saveState)
}
