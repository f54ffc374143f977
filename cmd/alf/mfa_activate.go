package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/awsalf/alf/internal/lifecycle"
	"github.com/awsalf/alf/internal/mfa"
	"github.com/awsalf/alf/internal/params"
)

func mfaActivateCmd() *cli.Command {
	set := optionSet(consoleOpts(), []option{
		{
			Spec:  params.Spec{Name: "device-name", Default: mfa.DefaultDeviceName, Validate: params.DeviceName},
			Short: "d",
			Usage: "name for the new virtual MFA device",
		},
	}, loggingOpts())

	return &cli.Command{
		Name:  "mfa-activate",
		Usage: "Enroll a virtual MFA device on the account's root user",
		Flags: flags(set),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res, err := resolveAndConfigure(ctx, cmd, set)
			if err != nil {
				return err
			}

			// The seed option names the device being enrolled here, not a
			// device the session signs in with.
			mgr, err := newConsoleManager(ctx, res, "")
			if err != nil {
				return err
			}
			_, err = lifecycle.MFAActivate(ctx, mgr,
				res.Get("device-name"), mfa.Seed(res.Get("mfa-seed")), os.Stdout)
			return err
		},
	}
}
