package model

import "time"

// Comment represents a single file-anchored review comment on a pull request.
// IDs are assigned by GitHub and never generated locally. After a fetch cycle
// completes, every Comment handed to consumers belongs to an unresolved thread,
// so Resolved is always false on surfaced comments.
type Comment struct {
	ID              int64
	Author          string
	Body            string
	Path            string
	Line            int // 1-based file line; 0 when GitHub only reports a diff position.
	Position        int // Diff-relative fallback locator, used when Line is 0.
	DiffHunk        string
	ThreadID        string // GraphQL review thread node ID; empty when GitHub exposes no thread linkage.
	IsFirstInThread bool
	Resolved        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DisplayLine returns the line number to present for this comment:
// Line when known, otherwise the diff-relative Position.
func (c Comment) DisplayLine() int {
	if c.Line > 0 {
		return c.Line
	}
	return c.Position
}

// HasAnchor reports whether the comment is anchored to a file.
func (c Comment) HasAnchor() bool {
	return c.Path != ""
}
