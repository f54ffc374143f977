package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/awsalf/alf/internal/lifecycle"
	"github.com/awsalf/alf/internal/mfa"
	"github.com/awsalf/alf/internal/params"
)

func updateNameCmd() *cli.Command {
	set := optionSet(consoleOpts(), []option{
		{
			Spec:  params.Spec{Name: "name", Required: true, Validate: params.AccountName},
			Short: "n",
			Usage: "new display name for the account",
		},
	}, loggingOpts())

	return &cli.Command{
		Name:  "update-name",
		Usage: "Change the account's display name",
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
			return lifecycle.UpdateName(ctx, mgr, res.Get("email"), res.Get("name"), os.Stdout)
		},
	}
}
