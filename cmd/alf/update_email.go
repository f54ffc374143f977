package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/awsalf/alf/internal/lifecycle"
	"github.com/awsalf/alf/internal/mfa"
	"github.com/awsalf/alf/internal/params"
)

func updateEmailCmd() *cli.Command {
	set := optionSet(consoleOpts(), []option{
		{
			Spec:  params.Spec{Name: "new-email", Required: true, Validate: params.Email},
			Short: "n",
			Usage: "new root email address for the account",
		},
	}, loggingOpts())

	return &cli.Command{
		Name:  "update-email",
		Usage: "Change the account's root email address",
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
			return lifecycle.UpdateEmail(ctx, mgr, res.Get("email"), res.Get("new-email"), os.Stdout)
		},
	}
}
