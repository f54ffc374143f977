package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/awsalf/alf/internal/lifecycle"
	"github.com/awsalf/alf/internal/mfa"
	"github.com/awsalf/alf/internal/params"
)

func mfaDeactivateCmd() *cli.Command {
	set := optionSet(consoleOpts(), []option{
		{
			Spec:  params.Spec{Name: "device-serial", Required: true, Validate: params.DeviceSerial},
			Short: "d",
			Usage: "serial (ARN) of the virtual MFA device to remove",
		},
	}, loggingOpts())

	return &cli.Command{
		Name:  "mfa-deactivate",
		Usage: "Remove a virtual MFA device from the account's root user",
		Flags: flags(set),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res, err := resolveAndConfigure(ctx, cmd, set)
			if err != nil {
				return err
			}
			serial, err := mfa.ParseSerial(res.Get("device-serial"))
			if err != nil {
				return &params.InvalidOptionError{Option: "device-serial", Err: err}
			}

			mgr, err := newConsoleManager(ctx, res, mfa.Seed(res.Get("mfa-seed")))
			if err != nil {
				return err
			}
			return lifecycle.MFADeactivate(ctx, mgr, serial, os.Stdout)
		},
	}
}
