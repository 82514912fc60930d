package application

import (
	"sort"
	"time"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// DisplayItem is one node of the navigable comment view. A thread with more
// than one comment becomes an item headed by the thread's first comment with
// the remaining comments as children; single-comment threads and threadless
// comments are flat leaves with no children.
type DisplayItem struct {
	Comment  model.Comment
	Children []model.Comment
}

// ThreadView is the read-only, deterministically ordered view over the
// current comment collection. It is rebuilt from scratch on every fetch and
// never mutated in place.
type ThreadView struct {
	comments []model.Comment
	items    []DisplayItem
	byThread map[string][]model.Comment
}

// threadKey orders threads among each other. Threads sort by their first
// comment's creation time, newest first; the first comment's ID breaks ties
// so the order is total.
type threadKey struct {
	firstCreated time.Time
	firstID      int64
}

// BuildView sorts the comments into the canonical order and groups them into
// display items. The input slice is not modified.
func BuildView(comments []model.Comment) *ThreadView {
	sorted := make([]model.Comment, len(comments))
	copy(sorted, comments)

	keys := threadKeys(sorted)
	keyFor := func(c model.Comment) threadKey {
		if c.ThreadID == "" {
			return threadKey{firstCreated: c.CreatedAt, firstID: c.ID}
		}
		return keys[c.ThreadID]
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		// File-anchored comments come first. Unanchored comments are filtered
		// out upstream today, but the rule costs nothing and keeps the order
		// well-defined should they ever appear.
		if a.HasAnchor() != b.HasAnchor() {
			return a.HasAnchor()
		}

		ka, kb := keyFor(a), keyFor(b)
		if !ka.firstCreated.Equal(kb.firstCreated) {
			return ka.firstCreated.After(kb.firstCreated)
		}
		if ka.firstID != kb.firstID {
			return ka.firstID > kb.firstID
		}

		// Same thread: chronological reading order.
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	view := &ThreadView{
		comments: sorted,
		byThread: make(map[string][]model.Comment),
	}

	for _, c := range sorted {
		if c.ThreadID != "" {
			view.byThread[c.ThreadID] = append(view.byThread[c.ThreadID], c)
		}
	}

	seen := make(map[string]bool)
	for _, c := range sorted {
		if c.ThreadID == "" {
			view.items = append(view.items, DisplayItem{Comment: c})
			continue
		}
		if seen[c.ThreadID] {
			continue
		}
		seen[c.ThreadID] = true

		members := view.byThread[c.ThreadID]
		item := DisplayItem{Comment: members[0]}
		if len(members) > 1 {
			item.Children = append(item.Children, members[1:]...)
		}
		view.items = append(view.items, item)
	}

	return view
}

// AllComments returns every comment in canonical order. The returned slice is
// a copy; callers cannot disturb the view.
func (v *ThreadView) AllComments() []model.Comment {
	out := make([]model.Comment, len(v.comments))
	copy(out, v.comments)
	return out
}

// CommentsInThread returns the comments belonging to the given thread in
// chronological order, or nil for an unknown thread.
func (v *ThreadView) CommentsInThread(threadID string) []model.Comment {
	members, ok := v.byThread[threadID]
	if !ok {
		return nil
	}
	out := make([]model.Comment, len(members))
	copy(out, members)
	return out
}

// FindDisplayItem returns the view node whose underlying comment ID matches.
// A thread head comes back with its children; a child comment comes back as a
// leaf node.
func (v *ThreadView) FindDisplayItem(commentID int64) (DisplayItem, bool) {
	for _, item := range v.items {
		if item.Comment.ID == commentID {
			return item, true
		}
		for _, child := range item.Children {
			if child.ID == commentID {
				return DisplayItem{Comment: child}, true
			}
		}
	}
	return DisplayItem{}, false
}

// Items returns the display items in canonical order.
func (v *ThreadView) Items() []DisplayItem {
	out := make([]DisplayItem, len(v.items))
	copy(out, v.items)
	return out
}

// Len returns the number of comments in the view.
func (v *ThreadView) Len() int {
	return len(v.comments)
}

// threadKeys computes the ordering key for every thread present in comments.
func threadKeys(comments []model.Comment) map[string]threadKey {
	keys := make(map[string]threadKey)
	for _, c := range comments {
		if c.ThreadID == "" {
			continue
		}
		key, ok := keys[c.ThreadID]
		if !ok || c.CreatedAt.Before(key.firstCreated) ||
			(c.CreatedAt.Equal(key.firstCreated) && c.ID < key.firstID) {
			keys[c.ThreadID] = threadKey{firstCreated: c.CreatedAt, firstID: c.ID}
		}
	}
	return keys
}
