package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/awsalf/alf/internal/console"
	"github.com/awsalf/alf/internal/mfa"
	"github.com/awsalf/alf/internal/params"
	"github.com/awsalf/alf/internal/solver"
)

// newSolver picks the captcha-solving capability: the 2captcha service
// when a token is configured, the interactive terminal otherwise. A
// dead token is rejected before any workflow starts.
func newSolver(ctx context.Context, token string) (solver.Solver, error) {
	if token == "" {
		return solver.Terminal{}, nil
	}

	tc := solver.NewTwoCaptcha(token)
	balance, err := tc.Balance(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "the captcha solving service rejected the token")
	}
	log.Debug("using the 2captcha solving service", "balance", balance)
	return tc, nil
}

// newConsoleManager builds the root-console manager for the resolved
// credentials. sessionSeed is the seed of the account's existing MFA
// device, needed to sign in once MFA is active.
func newConsoleManager(ctx context.Context, res params.Resolved, sessionSeed mfa.Seed) (*console.Manager, error) {
	slv, err := newSolver(ctx, res.Get("2captcha-token"))
	if err != nil {
		return nil, err
	}
	return console.NewManager(console.Credentials{
		Email:    res.Get("email"),
		Password: res.Get("password"),
		Region:   res.Get("region"),
		MFASeed:  sessionSeed,
	}, console.WithSolver(slv)), nil
}

// newPasswordManager builds the unauthenticated password client.
func newPasswordManager(ctx context.Context, res params.Resolved) (*console.PasswordManager, error) {
	slv, err := newSolver(ctx, res.Get("2captcha-token"))
	if err != nil {
		return nil, err
	}
	return console.NewPasswordManager(console.WithSolver(slv)), nil
}
