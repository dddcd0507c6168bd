// Package clipper implements the client-resident range selector: a state
// machine that keeps a [start, end] clip window synchronized with a media
// player's position and a drag-based range control, and produces the payload
// for clip creation.
package clipper

import (
	"context"
	"errors"
	"fmt"
)

// State is the selector's lifecycle phase for one playback session.
type State int

const (
	// AwaitingDuration means the player has not reported its total
	// duration yet; the range is undefined.
	AwaitingDuration State = iota
	// Selecting means the range is live and bound to the player.
	Selecting
	// Submitting means a clip request is in flight.
	Submitting
	// Submitted means the clip was created; AssetID carries the result.
	Submitted
	// Errored means the last submit failed; the range is preserved so the
	// user can adjust and retry.
	Errored
)

func (s State) String() string {
	switch s {
	case AwaitingDuration:
		return "awaiting-duration"
	case Selecting:
		return "selecting"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	case Errored:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Player is the selector's view of the media player. Seek must take effect
// synchronously relative to the calling edit, so the scrub control and the
// playback position never visibly diverge.
type Player interface {
	Position() float64
	Seek(seconds float64)
}

// ClipCreator submits the selected window. Implemented by the HTTP client
// that posts to the clips endpoint.
type ClipCreator interface {
	CreateClip(ctx context.Context, sourcePlaybackID string, startTime, endTime float64) (assetID string, err error)
}

// ErrNotSelecting is returned when an edit or submit arrives in a phase
// that does not accept it.
var ErrNotSelecting = errors.New("clipper: selector is not in a selecting state")

// Selector keeps the clip window for one playback session.
//
// Invariant: once the duration is known, 0 <= start < end <= duration.
// Edits that would violate it are clamped to the nearest valid value, never
// rejected; an edit that would collapse the range keeps the previous value.
type Selector struct {
	playbackID string
	player     Player
	creator    ClipCreator

	state    State
	duration float64
	start    float64
	end      float64

	assetID string
	lastErr string
	closed  bool
}

// NewSelector creates a selector for a source playback id. It starts in
// AwaitingDuration until the player reports metadata.
func NewSelector(playbackID string, player Player, creator ClipCreator) *Selector {
	return &Selector{
		playbackID: playbackID,
		player:     player,
		creator:    creator,
		state:      AwaitingDuration,
	}
}

func (s *Selector) State() State       { return s.state }
func (s *Selector) Duration() float64  { return s.duration }
func (s *Selector) Start() float64     { return s.start }
func (s *Selector) End() float64       { return s.end }
func (s *Selector) AssetID() string    { return s.assetID }
func (s *Selector) LastError() string  { return s.lastErr }
func (s *Selector) PlaybackID() string { return s.playbackID }

// SetDuration transitions AwaitingDuration -> Selecting, once, when the
// player reports its total duration. The initial window is the 25%-50%
// span, a sensible default for a first clip. Later calls are ignored.
func (s *Selector) SetDuration(duration float64) {
	if s.state != AwaitingDuration || duration <= 0 {
		return
	}
	s.duration = duration
	s.start = duration / 4
	s.end = duration / 2
	s.state = Selecting
}

// SetStart handles a drag edit of the window's start. The player seeks to
// the new start only; the end's seek target is untouched, and a no-op edit
// does not re-seek.
func (s *Selector) SetStart(value float64) error {
	if !s.editable() {
		return ErrNotSelecting
	}
	clamped := clamp(value, 0, s.end)
	if clamped >= s.end {
		// Would collapse the range; keep the previous start.
		return nil
	}
	if clamped == s.start {
		return nil
	}
	s.start = clamped
	s.player.Seek(clamped)
	s.resumeSelecting()
	return nil
}

// SetEnd handles a drag edit of the window's end; symmetric to SetStart.
func (s *Selector) SetEnd(value float64) error {
	if !s.editable() {
		return ErrNotSelecting
	}
	clamped := clamp(value, s.start, s.duration)
	if clamped <= s.start {
		return nil
	}
	if clamped == s.end {
		return nil
	}
	s.end = clamped
	s.player.Seek(clamped)
	s.resumeSelecting()
	return nil
}

// MarkStartHere is the "set start here" action: the player's current
// position becomes the window start, clamped into the invariant range.
func (s *Selector) MarkStartHere() error {
	if !s.editable() {
		return ErrNotSelecting
	}
	return s.SetStart(s.player.Position())
}

// MarkEndHere is the "set end here" action for the window end.
func (s *Selector) MarkEndHere() error {
	if !s.editable() {
		return ErrNotSelecting
	}
	return s.SetEnd(s.player.Position())
}

// Submit sends the selected window for clip creation. On success the
// selector is Submitted and AssetID holds the new asset for navigation. On
// failure it is Errored with the range preserved for retry. If the session
// was closed while the request was in flight, the response is discarded.
func (s *Selector) Submit(ctx context.Context) error {
	if !s.editable() {
		return ErrNotSelecting
	}
	s.state = Submitting
	s.lastErr = ""

	assetID, err := s.creator.CreateClip(ctx, s.playbackID, s.start, s.end)

	if s.closed {
		// Session ended mid-flight. The provider call already happened;
		// the result is simply dropped.
		return nil
	}
	if err != nil {
		s.state = Errored
		s.lastErr = err.Error()
		return err
	}

	s.assetID = assetID
	s.state = Submitted
	return nil
}

// Close marks the session as ended (view unmounted). An in-flight submit is
// not cancelled server-side, but its response will be discarded.
func (s *Selector) Close() {
	s.closed = true
}

// editable reports whether range edits and submits are accepted. Errored
// behaves like Selecting so the user can adjust and retry.
func (s *Selector) editable() bool {
	return !s.closed && (s.state == Selecting || s.state == Errored)
}

// resumeSelecting clears a stale error once the user edits again.
func (s *Selector) resumeSelecting() {
	if s.state == Errored {
		s.state = Selecting
		s.lastErr = ""
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
