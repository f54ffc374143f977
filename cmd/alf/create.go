package main

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/awsalf/alf/internal/awsorg"
	"github.com/awsalf/alf/internal/hierarchy"
	"github.com/awsalf/alf/internal/lifecycle"
	"github.com/awsalf/alf/internal/params"
)

func createCmd() *cli.Command {
	set := createOptionSet()
	return &cli.Command{
		Name:  "create",
		Usage: "Create a new account in the organization",
		Flags: append(flags(set),
			&cli.StringSliceFlag{
				Name:    "parent-hierarchy",
				Aliases: []string{"h"},
				Usage:   "parent OU path, root-most first; repeat per level, up to 5",
			},
			&cli.BoolFlag{
				Name:    "force-ou-hierarchy-creation",
				Aliases: []string{"f"},
				Usage:   "create missing organizational units along the requested path",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res, err := resolveAndConfigure(ctx, cmd, set)
			if err != nil {
				return err
			}
			opts := newCreateOptions(res,
				cmd.StringSlice("parent-hierarchy"),
				cmd.Bool("force-ou-hierarchy-creation"))

			client, err := awsorg.New(ctx, opts.RoleARN, opts.Region)
			if err != nil {
				return err
			}
			return doCreate(ctx, client, client, opts, os.Stdout)
		},
	}
}

func createOptionSet() []option {
	return optionSet(
		[]option{
			emailOpt(),
			regionOpt(),
			{
				Spec:  params.Spec{Name: "name", Required: true, Validate: params.AccountName},
				Short: "n",
				Usage: "display name of the new account",
			},
			{
				Spec:  params.Spec{Name: "arn", Required: true, Validate: params.RoleARN},
				Short: "a",
				Usage: "role ARN to assume in the organization's management account",
			},
			{
				Spec:  params.Spec{Name: "organizational-unit", Default: hierarchy.DefaultOU},
				Short: "o",
				Usage: "organizational unit the account lands in",
			},
			{
				Spec:  params.Spec{Name: "product-name"},
				Short: "p",
				Usage: "product name tag; defaults to the account name",
			},
			{
				Spec:  params.Spec{Name: "sso-email", Validate: params.Email},
				Short: "se",
				Usage: "SSO user email; defaults to the account email",
			},
			{
				Spec:  params.Spec{Name: "sso-first-name", Default: "Control"},
				Short: "sf",
				Usage: "SSO user first name",
			},
			{
				Spec:  params.Spec{Name: "sso-last-name", Default: "Tower"},
				Short: "sl",
				Usage: "SSO user last name",
			},
		},
		loggingOpts(),
	)
}

type createOptions struct {
	Email   string
	Name    string
	Region  string
	RoleARN string

	ProductName  string
	SSOEmail     string
	SSOFirstName string
	SSOLastName  string

	OUPath []string
	Force  bool
}

// newCreateOptions applies the cross-option defaults: the product name
// follows the account name and the SSO email follows the account email
// unless overridden.
func newCreateOptions(res params.Resolved, parentHierarchy []string, force bool) createOptions {
	opts := createOptions{
		Email:        res.Get("email"),
		Name:         res.Get("name"),
		Region:       res.Get("region"),
		RoleARN:      res.Get("arn"),
		ProductName:  res.Get("product-name"),
		SSOEmail:     res.Get("sso-email"),
		SSOFirstName: res.Get("sso-first-name"),
		SSOLastName:  res.Get("sso-last-name"),
		OUPath:       ouPath(parentHierarchy, res.Get("organizational-unit")),
		Force:        force,
	}
	if opts.ProductName == "" {
		opts.ProductName = opts.Name
	}
	if opts.SSOEmail == "" {
		opts.SSOEmail = opts.Email
	}
	return opts
}

// ouPath composes the full requested path from the parent hierarchy and
// the target OU. No hierarchy and the default target means the empty
// path, which the resolver maps to the default landing OU.
func ouPath(parentHierarchy []string, ou string) []string {
	if len(parentHierarchy) == 0 && ou == hierarchy.DefaultOU {
		return nil
	}
	return append(append([]string{}, parentHierarchy...), ou)
}

func doCreate(
	ctx context.Context, tower lifecycle.Tower, tree hierarchy.Client, opts createOptions, out io.Writer,
) error {
	return lifecycle.Create(ctx, tower, tree, lifecycle.CreateOptions{
		Email:        opts.Email,
		Name:         opts.Name,
		ProductName:  opts.ProductName,
		SSOEmail:     opts.SSOEmail,
		SSOFirstName: opts.SSOFirstName,
		SSOLastName:  opts.SSOLastName,
		OUPath:       opts.OUPath,
		Force:        opts.Force,
	}, out)
}
