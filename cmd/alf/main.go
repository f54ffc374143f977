package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/awsalf/alf/internal/hierarchy"
	"github.com/awsalf/alf/internal/params"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Exit codes distinguish who has to act on a failure: the operator
// fixing their invocation, the operator deciding whether to force OU
// creation, or the remote side.
const (
	exitOK            = 0
	exitRemoteFailure = 1
	exitConfigError   = 2
	exitMissingOU     = 3
)

func main() {
	// The create command claims -h for its parent-hierarchy flag, so the
	// help flag keeps only its long form.
	cli.HelpFlag = &cli.BoolFlag{Name: "help", Usage: "show help"}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitCode(err))
	}
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    "alf",
		Usage:   "Orchestrate the lifecycle of AWS accounts",
		Version: Version,
		Commands: []*cli.Command{
			createCmd(),
			requestPasswordResetCmd(),
			resetPasswordCmd(),
			mfaActivateCmd(),
			mfaDeactivateCmd(),
			billingIAMActivateCmd(),
			terminateCmd(),
			updateEmailCmd(),
			updateNameCmd(),
		},
	}
}

func exitCode(err error) int {
	var missingOU *hierarchy.MissingOUError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &missingOU):
		return exitMissingOU
	case errors.Is(err, hierarchy.ErrPathTooDeep), params.IsConfigError(err):
		return exitConfigError
	default:
		return exitRemoteFailure
	}
}
