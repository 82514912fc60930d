package application

import (
	"context"
	"sync"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

// ClientFactory builds the GitHub read and write ports for a given token.
// Split out so tests can inject httptest-backed clients.
type ClientFactory func(token string) (driven.GitHubClient, driven.GitHubWriter)

// ClientProvider resolves the GitHub client lazily from the credential store,
// so a token stored after startup takes effect without restarting. The built
// client is cached until the token changes or Invalidate is called.
type ClientProvider struct {
	mu      sync.Mutex
	creds   driven.CredentialStore
	factory ClientFactory

	token  string
	client driven.GitHubClient
	writer driven.GitHubWriter
}

// NewClientProvider creates a provider backed by the given credential store
// and client factory.
func NewClientProvider(creds driven.CredentialStore, factory ClientFactory) *ClientProvider {
	return &ClientProvider{
		creds:   creds,
		factory: factory,
	}
}

// Get returns the GitHub ports for the currently stored token. It fails with
// model.ErrMissingCredential before any network call when no token is stored.
func (p *ClientProvider) Get(ctx context.Context) (driven.GitHubClient, driven.GitHubWriter, error) {
	token, err := p.creds.GetToken(ctx)
	if err != nil {
		return nil, nil, err
	}
	if token == "" {
		return nil, nil, model.ErrMissingCredential
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil || p.token != token {
		p.client, p.writer = p.factory(token)
		p.token = token
	}

	return p.client, p.writer, nil
}

// Invalidate drops the cached client so the next Get rebuilds it from the
// stored token. Called after SetToken.
func (p *ClientProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
	p.client = nil
	p.writer = nil
}
