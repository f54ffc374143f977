package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/awsalf/alf/internal/lifecycle"
	"github.com/awsalf/alf/internal/params"
)

func resetPasswordCmd() *cli.Command {
	set := optionSet([]option{
		{
			Spec:  params.Spec{Name: "reset-url", Required: true, Prompt: true, Validate: params.ResetURL},
			Short: "r",
			Usage: "reset link received by email",
		},
		passwordOpt(),
		captchaTokenOpt(),
	}, loggingOpts())

	return &cli.Command{
		Name:  "reset-password",
		Usage: "Set a new root password through an emailed reset link",
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
			return lifecycle.ResetPassword(ctx, pm, res.Get("reset-url"), res.Get("password"), os.Stdout)
		},
	}
}
