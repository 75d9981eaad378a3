// Package session implements the editor session core: the note buffer plus
// cursor, the dot-phrase suggestion state machine, the expansion applier and
// the placeholder navigator. All methods run on the UI goroutine; there is no
// internal locking.
package session

import (
	"log/slog"
	"strings"

	"github.com/mkessler/chartnote/internal/phrase"
)

// PlaceholderMarker is the literal sequence marking a fill-in point. Any
// occurrence of the sequence in real content is indistinguishable from a
// placeholder; there is no escaping mechanism.
const PlaceholderMarker = "***"

// PhraseSource supplies the candidate phrases for trigger matching.
type PhraseSource interface {
	List() []phrase.Phrase
}

// Session owns a single note buffer and its collapsed cursor, along with the
// pending trigger match. The suggestion state is a single tagged variant
// (inactive, or active with query/candidates/selected index) so the popover
// can never observe inconsistent partial state.
type Session struct {
	buf    string
	cursor int
	source PhraseSource
	logger *slog.Logger

	// Pending trigger match. Valid only while active is true.
	active     bool
	query      string
	candidates []phrase.Phrase
	selected   int
}

// New creates a session over the given phrase source.
func New(source PhraseSource, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{source: source, logger: logger}
}

// Buffer returns the current buffer text.
func (s *Session) Buffer() string { return s.buf }

// Cursor returns the current cursor offset into the buffer.
func (s *Session) Cursor() int { return s.cursor }

// Active reports whether a pending trigger match exists. The popover may
// still be suppressed when there are no candidates; see Suggesting.
func (s *Session) Active() bool { return s.active }

// Suggesting reports whether the suggestion popover should be shown: a
// pending match with at least one candidate.
func (s *Session) Suggesting() bool { return s.active && len(s.candidates) > 0 }

// Query returns the characters typed after the dot while a match is pending.
func (s *Session) Query() string {
	if !s.active {
		return ""
	}
	return s.query
}

// Candidates returns the filtered candidate phrases in store order.
func (s *Session) Candidates() []phrase.Phrase {
	if !s.active {
		return nil
	}
	return s.candidates
}

// Selected returns the index of the highlighted candidate.
func (s *Session) Selected() int { return s.selected }

// SetBuffer replaces the buffer and cursor wholesale and re-evaluates the
// trigger matcher. Called on every edit; the selected index resets to 0
// whenever a (possibly identical) match is found.
func (s *Session) SetBuffer(text string, cursor int) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	s.buf = text
	s.cursor = cursor
	s.refresh()
}

// refresh recomputes the pending match from the current buffer and cursor.
func (s *Session) refresh() {
	query, ok := phrase.Match(s.buf, s.cursor)
	if !ok {
		s.deactivate()
		return
	}
	s.active = true
	s.query = query
	s.candidates = phrase.Filter(s.source.List(), query)
	s.selected = 0
}

func (s *Session) deactivate() {
	s.active = false
	s.query = ""
	s.candidates = nil
	s.selected = 0
}

// SelectNext moves the highlight down, wrapping past the last candidate.
// A no-op when inactive or when there are no candidates.
func (s *Session) SelectNext() {
	n := len(s.candidates)
	if !s.active || n == 0 {
		return
	}
	s.selected = (s.selected + 1) % n
}

// SelectPrev moves the highlight up, wrapping past the first candidate.
func (s *Session) SelectPrev() {
	n := len(s.candidates)
	if !s.active || n == 0 {
		return
	}
	s.selected = (s.selected - 1 + n) % n
}

// Cancel dismisses the pending match without touching the buffer.
func (s *Session) Cancel() {
	s.deactivate()
}

// Confirm replaces the trigger span (the dot plus the typed query) with the
// highlighted candidate's expansion and places the cursor immediately after
// the inserted text. The buffer and cursor mutate together so the matcher
// never observes a transient state. Returns false without modifying anything
// when there is no candidate to apply or the span is malformed.
func (s *Session) Confirm() bool {
	if !s.active {
		return false
	}
	if s.selected < 0 || s.selected >= len(s.candidates) {
		return false
	}

	start := s.cursor - (len(s.query) + 1)
	if start < 0 {
		// Malformed state: the matcher guarantees the query fits in the
		// preceding text, so never corrupt the buffer over it.
		s.logger.Debug("session: negative trigger span, ignoring confirm",
			"cursor", s.cursor, "query", s.query)
		return false
	}

	expansion := s.candidates[s.selected].Expansion
	s.buf = s.buf[:start] + expansion + s.buf[s.cursor:]
	s.cursor = start + len(expansion)
	s.deactivate()
	return true
}

// NextPlaceholder finds the next placeholder marker at or after the cursor,
// wrapping to the start of the buffer when none remains. On success the
// cursor moves to the end of the marker and the selected span is returned.
// When the buffer holds no marker at all, this is a no-op and ok is false.
func (s *Session) NextPlaceholder() (start, end int, ok bool) {
	idx := strings.Index(s.buf[min(s.cursor, len(s.buf)):], PlaceholderMarker)
	if idx >= 0 {
		idx += s.cursor
	} else {
		idx = strings.Index(s.buf, PlaceholderMarker)
	}
	if idx < 0 {
		return 0, 0, false
	}

	s.cursor = idx + len(PlaceholderMarker)
	s.refresh()
	return idx, idx + len(PlaceholderMarker), true
}
