package encoding

import (
	"bytes"
	"strings"
	"sync"
)

// tailBuffer keeps the last few lines written by the encoder. ffmpeg redraws
// its progress line with carriage returns, so both \r and \n end a line.
type tailBuffer struct {
	mu       sync.Mutex
	max      int
	lines    []string
	partial  []byte
	progress string
}

func newTailBuffer(max int) *tailBuffer {
	if max <= 0 {
		max = defaultTailLines
	}
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	data := p
	for len(data) > 0 {
		idx := bytes.IndexAny(data, "\r\n")
		if idx < 0 {
			t.partial = append(t.partial, data...)
			break
		}
		t.partial = append(t.partial, data[:idx]...)
		t.flushLocked()
		data = data[idx+1:]
	}
	return len(p), nil
}

func (t *tailBuffer) flushLocked() {
	line := strings.TrimSpace(string(t.partial))
	t.partial = t.partial[:0]
	if line == "" {
		return
	}
	if isProgressLine(line) {
		t.progress = line
		return
	}
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = append(t.lines[:0], t.lines[len(t.lines)-t.max:]...)
	}
}

// Lines returns the retained lines, oldest first, including any unterminated
// trailing output.
func (t *tailBuffer) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := append([]string(nil), t.lines...)
	if rest := strings.TrimSpace(string(t.partial)); rest != "" && !isProgressLine(rest) {
		out = append(out, rest)
		if len(out) > t.max {
			out = out[len(out)-t.max:]
		}
	}
	return out
}

// LastProgress returns the most recent ffmpeg status line.
func (t *tailBuffer) LastProgress() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

func isProgressLine(line string) bool {
	return strings.HasPrefix(line, "frame=") || strings.HasPrefix(line, "size=")
}
