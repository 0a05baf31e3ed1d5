package syncclient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaver struct {
	mu       sync.Mutex
	saves    []Document
	err      error
	assignId string
}

func (f *fakeSaver) Save(_ context.Context, doc Document) (Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return Document{}, f.err
	}
	f.saves = append(f.saves, doc)
	if doc.Id == "" && f.assignId != "" {
		doc.Id = f.assignId
	}
	return doc, nil
}

func (f *fakeSaver) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeSaver) lastSave() Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves[len(f.saves)-1]
}

type recordingBroadcaster struct {
	mu    sync.Mutex
	edits []string
}

func (b *recordingBroadcaster) BroadcastEdit(_, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.edits = append(b.edits, content)
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.edits)
}

func TestDebounceCollapsesBurst(t *testing.T) {
	saver := &fakeSaver{assignId: "doc-1"}
	loop := New(Document{}, saver, nil, WithDebounce(50*time.Millisecond))
	defer loop.Close()

	// Three edits inside the quiet period trigger exactly one save, carrying
	// the content of the third edit.
	loop.Edit("first")
	loop.Edit("second")
	loop.Edit("third")

	assert.Eventually(t, func() bool { return saver.saveCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "third", saver.lastSave().Content)

	// No further saves without further edits.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, saver.saveCount())
	assert.Equal(t, StateIdle, loop.State())
}

func TestDebounceTimerResetsOnEdit(t *testing.T) {
	saver := &fakeSaver{assignId: "doc-1"}
	loop := New(Document{}, saver, nil, WithDebounce(80*time.Millisecond))
	defer loop.Close()

	loop.Edit("a")
	time.Sleep(50 * time.Millisecond)
	loop.Edit("ab")
	time.Sleep(50 * time.Millisecond)

	// 100ms in, but the timer was reset at 50ms: nothing saved yet.
	assert.Equal(t, 0, saver.saveCount())

	assert.Eventually(t, func() bool { return saver.saveCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "ab", saver.lastSave().Content)
}

func TestFirstSaveAdoptsServerId(t *testing.T) {
	saver := &fakeSaver{assignId: "server-id"}
	loop := New(Document{Title: "New"}, saver, nil, WithAutoSave(false))
	defer loop.Close()

	loop.Edit("hello")
	require.NoError(t, loop.Save(context.Background()))
	assert.Equal(t, "server-id", loop.Document().Id)

	// Subsequent saves address the adopted id.
	loop.Edit("hello again")
	require.NoError(t, loop.Save(context.Background()))
	assert.Equal(t, "server-id", saver.lastSave().Id)
}

func TestFailedSaveKeepsContentAndDirty(t *testing.T) {
	saver := &fakeSaver{err: errors.New("network down")}
	loop := New(Document{Id: "doc-1"}, saver, nil, WithAutoSave(false))
	defer loop.Close()

	loop.Edit("precious edit")
	err := loop.Save(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateDirty, loop.State())
	assert.Equal(t, "precious edit", loop.Document().Content)
	assert.Error(t, loop.Err())

	// No background retry: the save count stays at zero until a new save.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, saver.saveCount())

	// The next explicit save retries and clears the error.
	saver.mu.Lock()
	saver.err = nil
	saver.mu.Unlock()
	require.NoError(t, loop.Save(context.Background()))
	assert.Equal(t, StateIdle, loop.State())
	assert.NoError(t, loop.Err())
}

func TestCloseCancelsPendingSave(t *testing.T) {
	saver := &fakeSaver{}
	loop := New(Document{Id: "doc-1"}, saver, nil, WithDebounce(50*time.Millisecond))

	loop.Edit("about to close")
	loop.Close()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, saver.saveCount())
}

func TestEditDuringSaveStaysDirty(t *testing.T) {
	release := make(chan struct{})
	saver := &blockingSaver{release: release}
	loop := New(Document{Id: "doc-1"}, saver, nil, WithAutoSave(false))
	defer loop.Close()

	loop.Edit("v1")
	done := make(chan error, 1)
	go func() { done <- loop.Save(context.Background()) }()

	// Wait until the save is in flight, then edit.
	assert.Eventually(t, func() bool { return loop.State() == StateSaving }, time.Second, time.Millisecond)
	loop.Edit("v2")

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, StateDirty, loop.State())
	assert.Equal(t, "v2", loop.Document().Content)
}

type blockingSaver struct {
	release chan struct{}
}

func (b *blockingSaver) Save(_ context.Context, doc Document) (Document, error) {
	<-b.release
	return doc, nil
}

func TestEditsBroadcastImmediately(t *testing.T) {
	saver := &fakeSaver{}
	broadcaster := &recordingBroadcaster{}
	loop := New(Document{Id: "doc-1"}, saver, broadcaster, WithAutoSave(false))
	defer loop.Close()

	loop.Edit("a")
	loop.Edit("ab")

	// Broadcast happens on every keystroke, before any save.
	assert.Equal(t, 2, broadcaster.count())
	assert.Equal(t, 0, saver.saveCount())
}

func TestSelection(t *testing.T) {
	loop := New(Document{Id: "doc-1", Content: "hello world"}, &fakeSaver{}, nil, WithAutoSave(false))
	defer loop.Close()

	loop.SetSelection(6, 11)
	assert.Equal(t, "world", loop.SelectedText())

	// Selection does not touch the save machinery.
	assert.Equal(t, StateIdle, loop.State())

	loop.SetSelection(8, 3)
	assert.Equal(t, "", loop.SelectedText())
}
