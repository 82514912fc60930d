package model

import "fmt"

// RepositoryIdentity identifies a GitHub repository by owner and name.
// It is derived once per fetch cycle from the working copy's origin URL
// and is immutable for that cycle.
type RepositoryIdentity struct {
	Owner string
	Name  string
}

// FullName returns the "owner/name" form used by the GitHub API.
func (r RepositoryIdentity) FullName() string {
	return r.Owner + "/" + r.Name
}

// PullRequestRef identifies the pull request a session is synchronized with.
type PullRequestRef struct {
	Owner  string
	Name   string
	Number int
}

// Identity returns the repository identity embedded in the ref.
func (p PullRequestRef) Identity() RepositoryIdentity {
	return RepositoryIdentity{Owner: p.Owner, Name: p.Name}
}

func (p PullRequestRef) String() string {
	return fmt.Sprintf("%s/%s#%d", p.Owner, p.Name, p.Number)
}

// PullRequestCandidate is one open pull request matching the current branch,
// surfaced to the user when more than one match exists.
type PullRequestCandidate struct {
	Number int
	Title  string
	Head   string
	Base   string
}
