package model

// ThreadCommentMeta is the per-comment classification data carried by the
// GraphQL review thread snapshot: which thread owns the comment, whether that
// thread is resolved, whether the comment's anchor line still exists in the
// current diff, and whether the thread is anchored to a file at all.
type ThreadCommentMeta struct {
	ThreadID string // GraphQL node ID of the owning review thread.
	Resolved bool
	Outdated bool
	HasPath  bool
}

// ThreadSnapshot maps review comment database IDs to their thread metadata.
// It is taken once per fetch cycle and treated as authoritative for that
// cycle, even if a thread is resolved while the REST pages are still being
// read; the next fetch corrects any staleness.
type ThreadSnapshot map[int64]ThreadCommentMeta

// Displayable reports whether the comment with the given ID should be
// surfaced: file-anchored, not outdated, and in an unresolved thread.
func (s ThreadSnapshot) Displayable(id int64) bool {
	meta, ok := s[id]
	return ok && meta.HasPath && !meta.Outdated && !meta.Resolved
}

// HasDisplayable reports whether any comment in the snapshot is displayable.
// A false result lets the fetcher return an empty set without touching the
// REST API at all.
func (s ThreadSnapshot) HasDisplayable() bool {
	for id := range s {
		if s.Displayable(id) {
			return true
		}
	}
	return false
}

// ThreadFor returns the thread node ID owning the given comment, if known.
func (s ThreadSnapshot) ThreadFor(commentID int64) (string, bool) {
	meta, ok := s[commentID]
	if !ok || meta.ThreadID == "" {
		return "", false
	}
	return meta.ThreadID, true
}
