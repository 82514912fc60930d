// Package git implements the RepoInspector port using the go-git library.
package git

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RepoInspector = (*Locator)(nil)

// Locator reads repository identity and branch state from a local working copy.
type Locator struct{}

// NewLocator creates a new Locator.
func NewLocator() *Locator {
	return &Locator{}
}

// Locate opens the working copy at path, reads the "origin" remote URL and the
// current branch, and derives the repository identity.
func (l *Locator) Locate(path string) (model.RepositoryIdentity, string, error) {
	if path == "" {
		return model.RepositoryIdentity{}, "", model.ErrNoWorkspace
	}

	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return model.RepositoryIdentity{}, "", fmt.Errorf("%w: %s", model.ErrNoWorkspace, path)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return model.RepositoryIdentity{}, "", model.ErrNoRemote
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return model.RepositoryIdentity{}, "", model.ErrNoRemote
	}

	identity, err := ParseRemoteURL(urls[0])
	if err != nil {
		return model.RepositoryIdentity{}, "", err
	}

	head, err := repo.Head()
	if err != nil {
		return model.RepositoryIdentity{}, "", model.ErrNoBranch
	}
	if !head.Name().IsBranch() {
		return model.RepositoryIdentity{}, "", model.ErrNoBranch
	}
	branch := head.Name().Short()

	slog.Debug("located working copy",
		"path", path,
		"repo", identity.FullName(),
		"branch", branch,
	)

	return identity, branch, nil
}

// ParseRemoteURL derives owner and name from a remote URL in either accepted
// form: "https://host/owner/name[.git]" or "user@host:owner/name[.git]".
func ParseRemoteURL(remoteURL string) (model.RepositoryIdentity, error) {
	trimmed := strings.TrimSpace(remoteURL)

	if strings.HasPrefix(trimmed, "https://") || strings.HasPrefix(trimmed, "http://") {
		return parseHTTPRemote(trimmed)
	}

	// SCP-like SSH form: user@host:owner/name.
	if at := strings.Index(trimmed, "@"); at > 0 {
		if colon := strings.Index(trimmed[at:], ":"); colon > 0 {
			return splitOwnerName(remoteURL, trimmed[at+colon+1:])
		}
	}

	return model.RepositoryIdentity{}, &model.UnparsableRemoteURLError{URL: remoteURL}
}

func parseHTTPRemote(remoteURL string) (model.RepositoryIdentity, error) {
	u, err := url.Parse(remoteURL)
	if err != nil || u.Host == "" {
		return model.RepositoryIdentity{}, &model.UnparsableRemoteURLError{URL: remoteURL}
	}
	return splitOwnerName(remoteURL, strings.TrimPrefix(u.Path, "/"))
}

func splitOwnerName(remoteURL, path string) (model.RepositoryIdentity, error) {
	path = strings.TrimSuffix(strings.TrimSuffix(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return model.RepositoryIdentity{}, &model.UnparsableRemoteURLError{URL: remoteURL}
	}
	return model.RepositoryIdentity{Owner: parts[0], Name: parts[1]}, nil
}
