package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/awsalf/alf/internal/lifecycle"
	"github.com/awsalf/alf/internal/mfa"
)

func billingIAMActivateCmd() *cli.Command {
	set := optionSet(consoleOpts(), loggingOpts())
	return &cli.Command{
		Name:  "billing-iam-activate",
		Usage: "Allow IAM principals into the account's billing console",
		Flags: flags(set),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res, err := resolveAndConfigure(ctx, cmd, set)
			if err != nil {
				return err
			}
			mgr, err := newConsoleManager(ctx, res, mfa.Seed(res.Get("mfa-seed")))
			if err != nil {
				return err
			}
			return lifecycle.BillingIAMActivate(ctx, mgr, res.Get("email"), os.Stdout)
		},
	}
}
