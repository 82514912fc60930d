package driven

import "github.com/ericfisherdev/reviewdeck/internal/domain/model"

// RepoInspector defines the driven port for reading local VCS state: the
// origin remote identity and the currently checked-out branch.
type RepoInspector interface {
	// Locate derives the repository identity and current branch from the
	// working copy at path. Failure modes: model.ErrNoWorkspace,
	// model.ErrNoRemote, *model.UnparsableRemoteURLError, model.ErrNoBranch.
	Locate(path string) (model.RepositoryIdentity, string, error)
}
