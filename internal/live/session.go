package live

import (
	"slices"
	"sync"
)

// SessionID uniquely identifies a viewer (local terminal or SSH connection).
type SessionID string

// SessionHandle is how the coordinator reaches a viewer without knowing
// whether it is a local terminal or an SSH program.
type SessionHandle interface {
	ID() SessionID

	// Send delivers an update without blocking.
	Send(u Update)

	// Done closes when the viewer goes away.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle backed by a bounded mailbox. When the
// mailbox is full the oldest update is discarded: a viewer that falls behind
// skips straight to newer board states.
type ChannelSession struct {
	id      SessionID
	mailbox chan Update
	done    chan struct{}

	mu     sync.Mutex // Serializes senders so drop-and-retry is atomic
	closed sync.Once
}

// NewChannelSession creates a session holding up to capacity pending updates.
func NewChannelSession(id SessionID, capacity int) *ChannelSession {
	return &ChannelSession{
		id:      id,
		mailbox: make(chan Update, max(capacity, 1)),
		done:    make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues an update, evicting the oldest pending one if needed.
// Updates sent after Close are ignored.
func (s *ChannelSession) Send(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}
	for {
		select {
		case s.mailbox <- u:
			return
		default:
		}
		select {
		case <-s.mailbox:
		default:
		}
	}
}

// Events returns the mailbox the viewer reads from.
func (s *ChannelSession) Events() <-chan Update {
	return s.mailbox
}

// Done returns a channel that closes with the session.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close ends the session. Safe to call more than once.
func (s *ChannelSession) Close() {
	s.closed.Do(func() { close(s.done) })
}

// viewerSet holds the attached viewers. Register and Unregister come from
// viewer goroutines while the coordinator iterates, so it is locked.
type viewerSet struct {
	mu      sync.RWMutex
	viewers map[SessionID]SessionHandle
}

func newViewerSet() *viewerSet {
	return &viewerSet{viewers: make(map[SessionID]SessionHandle)}
}

func (v *viewerSet) add(h SessionHandle) {
	v.mu.Lock()
	v.viewers[h.ID()] = h
	v.mu.Unlock()
}

func (v *viewerSet) remove(id SessionID) {
	v.mu.Lock()
	delete(v.viewers, id)
	v.mu.Unlock()
}

func (v *viewerSet) count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.viewers)
}

// list returns the viewers ordered by id.
func (v *viewerSet) list() []SessionHandle {
	v.mu.RLock()
	out := make([]SessionHandle, 0, len(v.viewers))
	for _, h := range v.viewers {
		out = append(out, h)
	}
	v.mu.RUnlock()
	slices.SortFunc(out, func(a, b SessionHandle) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return out
}
