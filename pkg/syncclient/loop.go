// Package syncclient implements the editing client's local state machine:
// it captures edits, mirrors them to peers, debounces persistence and
// reconciles server responses. Edits are never lost to a failed save.
package syncclient

import (
	"context"
	"sync"
	"time"
)

// State of the per-document loop.
type State int

const (
	// StateLoading: initial fetch in flight.
	StateLoading State = iota
	// StateIdle: content matches the last known persisted state.
	StateIdle
	// StateDirty: a local edit happened since the last successful save.
	StateDirty
	// StateSaving: a persistence call is in flight.
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateIdle:
		return "idle"
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// Document is the loop's local buffer. An empty Id means the document has
// not been persisted yet; the first successful save adopts the
// server-assigned id.
type Document struct {
	Id      string
	Title   string
	Content string
}

// Saver persists the buffer. The returned document carries the
// authoritative id.
type Saver interface {
	Save(ctx context.Context, doc Document) (Document, error)
}

// Loader performs the initial fetch.
type Loader interface {
	Fetch(ctx context.Context, id string) (Document, error)
}

// Broadcaster mirrors local edits to peers over the realtime channel.
// Best-effort: failures are invisible to the loop.
type Broadcaster interface {
	BroadcastEdit(documentId, content string)
}

// Selection is a text range consumed by AI-assist actions. It is independent
// of the save/broadcast machinery.
type Selection struct {
	Start int
	End   int
}

const DefaultDebounce = 2 * time.Second

type Option func(*Loop)

// WithDebounce overrides the quiet period before an auto-save.
func WithDebounce(d time.Duration) Option {
	return func(l *Loop) { l.debounce = d }
}

// WithAutoSave toggles debounced auto-saving. Disabled, only explicit Save
// calls persist.
func WithAutoSave(enabled bool) Option {
	return func(l *Loop) { l.autoSave = enabled }
}

// Loop is the per-document synchronization state machine.
type Loop struct {
	mu sync.Mutex

	state State
	doc   Document
	// seq counts edits; a save only returns to Idle when no edit arrived
	// while it was in flight.
	seq      uint64
	savedSeq uint64

	autoSave bool
	debounce time.Duration
	timer    *time.Timer
	closed   bool

	saver       Saver
	broadcaster Broadcaster

	lastErr   error
	selection Selection
}

// New builds a loop around an already-known buffer (a brand-new document has
// an empty Id). The loop starts Idle.
func New(doc Document, saver Saver, broadcaster Broadcaster, opts ...Option) *Loop {
	l := &Loop{
		state:       StateIdle,
		doc:         doc,
		autoSave:    true,
		debounce:    DefaultDebounce,
		saver:       saver,
		broadcaster: broadcaster,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewLoading builds a loop that must Load before editing.
func NewLoading(id string, saver Saver, broadcaster Broadcaster, opts ...Option) *Loop {
	l := New(Document{Id: id}, saver, broadcaster, opts...)
	l.state = StateLoading
	return l
}

// Load runs the initial fetch. On failure the loop stays Loading and the
// error is retained for the caller to surface.
func (l *Loop) Load(ctx context.Context, loader Loader) error {
	l.mu.Lock()
	id := l.doc.Id
	l.mu.Unlock()

	doc, err := loader.Fetch(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.lastErr = err
		return err
	}
	l.doc = doc
	l.state = StateIdle
	l.lastErr = nil
	return nil
}

// Edit applies a keystroke: the local buffer updates immediately, the edit
// is mirrored to peers, and the debounce timer resets. Only the last edit in
// a burst triggers a save.
func (l *Loop) Edit(content string) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.doc.Content = content
	l.seq++
	if l.state != StateSaving {
		l.state = StateDirty
	}

	documentId := l.doc.Id
	if l.autoSave {
		l.resetTimerLocked()
	}
	l.mu.Unlock()

	if l.broadcaster != nil {
		l.broadcaster.BroadcastEdit(documentId, content)
	}
}

// SetTitle updates the title buffer without broadcasting; titles persist on
// the next save.
func (l *Loop) SetTitle(title string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.doc.Title = title
	l.seq++
	if l.state != StateSaving {
		l.state = StateDirty
	}
	if l.autoSave {
		l.resetTimerLocked()
	}
}

// resetTimerLocked implements the debounce: a pending timer is cancelled and
// rearmed, so a burst of edits collapses into one save.
func (l *Loop) resetTimerLocked() {
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.debounce, func() {
		l.Save(context.Background())
	})
}

// Save persists the buffer immediately, cancelling any pending debounce. A
// failure keeps the content and the Dirty flag; the loop never retries on
// its own.
func (l *Loop) Save(ctx context.Context) error {
	l.mu.Lock()
	if l.closed || l.state == StateLoading {
		l.mu.Unlock()
		return nil
	}
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	if l.state == StateSaving {
		l.mu.Unlock()
		return nil
	}
	l.state = StateSaving
	snapshot := l.doc
	snapshotSeq := l.seq
	l.mu.Unlock()

	saved, err := l.saver.Save(ctx, snapshot)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		// Content is preserved; the error surfaces to the user and the next
		// edit or explicit save retries.
		l.lastErr = err
		l.state = StateDirty
		return err
	}

	l.lastErr = nil
	if snapshot.Id == "" && saved.Id != "" {
		l.doc.Id = saved.Id
	}
	l.savedSeq = snapshotSeq
	if l.seq == snapshotSeq {
		l.state = StateIdle
	} else {
		// Edits arrived while the save was in flight.
		l.state = StateDirty
	}
	return nil
}

// SetSelection records the text range for AI-assist actions.
func (l *Loop) SetSelection(start, end int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selection = Selection{Start: start, End: end}
}

// SelectedText returns the selected slice of the current buffer.
func (l *Loop) SelectedText() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	content := l.doc.Content
	start, end := l.selection.Start, l.selection.End
	if start < 0 || end > len(content) || start >= end {
		return ""
	}
	return content[start:end]
}

// Close cancels any pending debounce without triggering the scheduled save.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loop) Document() Document {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc
}

func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}
