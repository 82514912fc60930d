package application

import (
	"sync"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// Session owns the process-wide synchronization state: the pull request the
// workspace is currently synced against and the comment view built from the
// last successful fetch. Both are replaced wholesale; there is no incremental
// patching. A mutex serializes replacements so a fetch racing a branch switch
// can never expose a half-built view.
type Session struct {
	mu   sync.RWMutex
	ref  *model.PullRequestRef
	view *ThreadView
	subs []chan struct{}
}

// NewSession creates an empty session with no pull request and an empty view.
func NewSession() *Session {
	return &Session{view: BuildView(nil)}
}

// PullRequest returns the pull request the session is synced against, if any.
func (s *Session) PullRequest() (model.PullRequestRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ref == nil {
		return model.PullRequestRef{}, false
	}
	return *s.ref, true
}

// View returns the current thread view. Never nil; an unsynced session
// returns an empty view.
func (s *Session) View() *ThreadView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Replace installs a new pull request ref and view atomically and notifies
// subscribers.
func (s *Session) Replace(ref model.PullRequestRef, view *ThreadView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ref = &ref
	s.view = view
	s.notifyLocked()
}

// Clear drops the pull request ref and empties the view. Called when no open
// pull request exists for the current branch.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ref = nil
	s.view = BuildView(nil)
	s.notifyLocked()
}

// Subscribe returns a channel that receives a signal whenever the comment
// collection is replaced. The channel has a buffer of one; a subscriber that
// has not drained the previous signal simply coalesces with the next.
func (s *Session) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Session) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
