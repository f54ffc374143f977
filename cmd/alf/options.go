package main

import (
	"context"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/awsalf/alf/internal/params"
)

// option pairs a declared parameter with its command-line surface. The
// cli flag only collects the raw input; precedence over environment
// variables and defaults is worked out by the params resolver.
type option struct {
	params.Spec
	Short string
	Usage string
}

func flags(set []option) []cli.Flag {
	out := make([]cli.Flag, 0, len(set))
	for _, o := range set {
		f := &cli.StringFlag{Name: o.Name, Usage: o.Usage}
		if o.Short != "" {
			f.Aliases = []string{o.Short}
		}
		out = append(out, f)
	}
	return out
}

// resolveOptions collects the raw command-line inputs, asks the
// operator for absent promptable values, and resolves the final option
// set.
func resolveOptions(ctx context.Context, cmd *cli.Command, set []option) (params.Resolved, error) {
	specs := make([]params.Spec, 0, len(set))
	inputs := make(map[string]params.Input, len(set))
	for _, o := range set {
		specs = append(specs, o.Spec)
		inputs[o.Name] = params.Input{Value: cmd.String(o.Name), Set: cmd.IsSet(o.Name)}
	}

	for _, o := range set {
		if !o.Prompt || inputs[o.Name].Set {
			continue
		}
		if env, ok := os.LookupEnv(o.EnvVar()); ok && env != "" {
			continue
		}
		value, err := promptFor(ctx, o)
		if err != nil {
			return params.Resolved{}, err
		}
		inputs[o.Name] = params.Input{Value: value, Set: true}
	}

	return params.Resolve(specs, inputs, os.LookupEnv)
}

// resolveAndConfigure resolves the option set and configures logging
// from it. Every command action starts here.
func resolveAndConfigure(ctx context.Context, cmd *cli.Command, set []option) (params.Resolved, error) {
	res, err := resolveOptions(ctx, cmd, set)
	if err != nil {
		return params.Resolved{}, err
	}
	if err := setupLogging(res); err != nil {
		return params.Resolved{}, err
	}
	return res, nil
}

func promptFor(ctx context.Context, o option) (string, error) {
	var value string
	input := huh.NewInput().
		Title("--" + o.Name).
		Description(o.Usage).
		Value(&value)
	if o.Secret {
		input = input.EchoMode(huh.EchoModePassword)
	}

	fields := []huh.Field{input}
	if o.Secret {
		var confirmation string
		fields = append(fields, huh.NewInput().
			Title("repeat for confirmation").
			EchoMode(huh.EchoModePassword).
			Value(&confirmation).
			Validate(func(s string) error {
				if s != value {
					return errors.New("the two values do not match")
				}
				return nil
			}))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).RunWithContext(ctx); err != nil {
		return "", errors.Wrapf(err, "no value provided for --%s", o.Name)
	}
	return value, nil
}

// Options shared across commands. Each command assembles its set from
// these constructors plus its own.

func emailOpt() option {
	return option{
		Spec:  params.Spec{Name: "email", Required: true, Validate: params.Email},
		Short: "e",
		Usage: "root email address of the account",
	}
}

func regionOpt() option {
	return option{
		Spec:  params.Spec{Name: "region", Env: "AWS_DEFAULT_REGION", Required: true, Validate: params.Region},
		Short: "r",
		Usage: "home region of the account",
	}
}

func passwordOpt() option {
	return option{
		Spec:  params.Spec{Name: "password", Required: true, Prompt: true, Secret: true, Validate: params.Password},
		Short: "p",
		Usage: "root password of the account",
	}
}

func captchaTokenOpt() option {
	return option{
		Spec:  params.Spec{Name: "2captcha-token", Env: "TWO_CAPTCHA_API_TOKEN"},
		Short: "t",
		Usage: "2captcha API token; captchas are solved interactively when absent",
	}
}

func mfaSeedOpt() option {
	return option{
		Spec:  params.Spec{Name: "mfa-seed", Validate: params.MFASeed},
		Short: "m",
		Usage: "base32 seed of the account's virtual MFA device",
	}
}

func logLevelOpt() option {
	return option{
		Spec: params.Spec{
			Name:         "log-level",
			Default:      "info",
			Group:        "logging",
			GroupDefault: true,
			Validate:     params.LogLevel,
		},
		Short: "l",
		Usage: "log level (debug, info, warning, error)",
	}
}

func logConfigOpt() option {
	return option{
		Spec:  params.Spec{Name: "log-config", Group: "logging"},
		Short: "L",
		Usage: "YAML file configuring the logger; mutually exclusive with --log-level",
	}
}

// loggingOpts are part of every command's option set.
func loggingOpts() []option {
	return []option{logLevelOpt(), logConfigOpt()}
}

// consoleOpts are shared by every command that signs in to the root
// console.
func consoleOpts() []option {
	return []option{emailOpt(), passwordOpt(), regionOpt(), captchaTokenOpt(), mfaSeedOpt()}
}

func optionSet(groups ...[]option) []option {
	var set []option
	for _, group := range groups {
		set = append(set, group...)
	}
	return set
}
