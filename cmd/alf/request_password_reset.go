package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/awsalf/alf/internal/lifecycle"
)

func requestPasswordResetCmd() *cli.Command {
	set := optionSet([]option{emailOpt(), captchaTokenOpt()}, loggingOpts())
	return &cli.Command{
		Name:  "request-password-reset",
		Usage: "Request a root password reset link for an account",
		Flags: flags(set),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res, err := resolveAndConfigure(ctx, cmd, set)
			if err != nil {
				return err
			}
			pm, err := newPasswordManager(ctx, res)
			if err != nil {
				return err
			}
			return lifecycle.RequestPasswordReset(ctx, pm, res.Get("email"), os.Stdout)
		},
	}
}
