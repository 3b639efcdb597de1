package onboard

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/fyrsmithlabs/gitbot/internal/config"
)

// Account is what token verification learns about the user.
type Account struct {
	Username string
	Email    string
}

// NewGitHubClient creates a GitHub client authenticated with the token.
func NewGitHubClient(ctx context.Context, token config.Secret) (*github.Client, error) {
	if !token.IsSet() {
		return nil, fmt.Errorf("GitHub token not set")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.Value()})
	tc := oauth2.NewClient(ctx, ts)
	return github.NewClient(tc), nil
}

// tokenVerifier lets tests stub the GitHub round-trip.
type tokenVerifier func(ctx context.Context, token config.Secret) (Account, error)

// VerifyToken checks the token against the GitHub API and returns the
// account it belongs to. The email may be empty when the user hides it; the
// wizard asks for one in that case.
func VerifyToken(ctx context.Context, token config.Secret) (Account, error) {
	client, err := NewGitHubClient(ctx, token)
	if err != nil {
		return Account{}, err
	}

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return Account{}, fmt.Errorf("token verification failed: %w", err)
	}

	return Account{
		Username: user.GetLogin(),
		Email:    user.GetEmail(),
	}, nil
}
