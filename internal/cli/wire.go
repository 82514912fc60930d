package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	gitadapter "github.com/ericfisherdev/reviewdeck/internal/adapter/driven/git"
	githubadapter "github.com/ericfisherdev/reviewdeck/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/reviewdeck/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/reviewdeck/internal/application"
	"github.com/ericfisherdev/reviewdeck/internal/config"
	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

// app is the composition root shared by all subcommands: configuration,
// credential database, and the application services wired over the adapters.
type app struct {
	cfg       *config.Config
	db        *sqliteadapter.DB
	creds     driven.CredentialStore
	provider  *application.ClientProvider
	session   *application.Session
	sync      *application.SyncService
	mutations *application.MutationService
}

// newApp wires the adapters and services. Callers must Close the returned app.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.EnsureDBDir(); err != nil {
		return nil, err
	}

	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		db.Close()
		return nil, err
	}

	creds := driven.CredentialStore(sqliteadapter.NewCredentialRepo(db, cfg.EncryptionKey()))
	if cfg.GitHubToken != "" {
		creds = &envFallbackStore{primary: creds, envToken: cfg.GitHubToken}
	}

	provider := application.NewClientProvider(creds, func(token string) (driven.GitHubClient, driven.GitHubWriter) {
		client := githubadapter.NewClient(token, cfg.HTTPTimeout)
		return client, client
	})

	session := application.NewSession()
	sync := application.NewSyncService(gitadapter.NewLocator(), provider, session, promptForPullRequest)
	mutations := application.NewMutationService(provider, sync)

	return &app{
		cfg:       cfg,
		db:        db,
		creds:     creds,
		provider:  provider,
		session:   session,
		sync:      sync,
		mutations: mutations,
	}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
}

// envFallbackStore reads the token from the sqlite store first and falls back
// to REVIEWDECK_GITHUB_TOKEN when nothing is stored or no encryption key is
// configured. Writes always go to the primary store.
type envFallbackStore struct {
	primary  driven.CredentialStore
	envToken string
}

func (s *envFallbackStore) GetToken(ctx context.Context) (string, error) {
	token, err := s.primary.GetToken(ctx)
	if errors.Is(err, driven.ErrEncryptionKeyNotSet) {
		return s.envToken, nil
	}
	if err != nil {
		return "", err
	}
	if token == "" {
		return s.envToken, nil
	}
	return token, nil
}

func (s *envFallbackStore) SetToken(ctx context.Context, token string) error {
	return s.primary.SetToken(ctx, token)
}

// promptForPullRequest asks the user to pick between multiple open pull
// requests whose head is the current branch. Declining (empty input or EOF)
// cancels the selection.
func promptForPullRequest(branch string, candidates []model.PullRequestCandidate) (int, error) {
	fmt.Fprintf(os.Stderr, "Branch %q matches %d open pull requests:\n", branch, len(candidates))
	for _, c := range candidates {
		fmt.Fprintf(os.Stderr, "  #%-6d %s (%s -> %s)\n", c.Number, c.Title, c.Head, c.Base)
	}
	fmt.Fprint(os.Stderr, "Pull request number (empty to cancel): ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return 0, nil
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return 0, nil
	}

	number, err := strconv.Atoi(strings.TrimPrefix(line, "#"))
	if err != nil {
		return 0, fmt.Errorf("invalid pull request number %q: %w", line, err)
	}

	for _, c := range candidates {
		if c.Number == number {
			return number, nil
		}
	}
	return 0, fmt.Errorf("#%d is not among the matching pull requests", number)
}
