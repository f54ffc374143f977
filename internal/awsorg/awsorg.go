// Package awsorg implements the account-factory and OU-tree
// collaborators on top of the AWS Organizations API, authenticated by
// assuming the factory role in the management account.
package awsorg

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/awsalf/alf/internal/hierarchy"
	"github.com/awsalf/alf/internal/lifecycle"
)

// Tags attached to accounts provisioned through the factory.
const (
	productNameTag  = "product-name"
	ssoEmailTag     = "sso-user-email"
	ssoFirstNameTag = "sso-user-first-name"
	ssoLastNameTag  = "sso-user-last-name"
)

// API is the slice of the Organizations client the package uses.
// Narrowed for tests.
type API interface {
	ListRoots(ctx context.Context, in *organizations.ListRootsInput, opts ...func(*organizations.Options)) (*organizations.ListRootsOutput, error)
	ListOrganizationalUnitsForParent(ctx context.Context, in *organizations.ListOrganizationalUnitsForParentInput, opts ...func(*organizations.Options)) (*organizations.ListOrganizationalUnitsForParentOutput, error)
	CreateOrganizationalUnit(ctx context.Context, in *organizations.CreateOrganizationalUnitInput, opts ...func(*organizations.Options)) (*organizations.CreateOrganizationalUnitOutput, error)
	CreateAccount(ctx context.Context, in *organizations.CreateAccountInput, opts ...func(*organizations.Options)) (*organizations.CreateAccountOutput, error)
	DescribeCreateAccountStatus(ctx context.Context, in *organizations.DescribeCreateAccountStatusInput, opts ...func(*organizations.Options)) (*organizations.DescribeCreateAccountStatusOutput, error)
	MoveAccount(ctx context.Context, in *organizations.MoveAccountInput, opts ...func(*organizations.Options)) (*organizations.MoveAccountOutput, error)
	TagResource(ctx context.Context, in *organizations.TagResourceInput, opts ...func(*organizations.Options)) (*organizations.TagResourceOutput, error)
}

// Client is both the lifecycle.Tower account factory and the
// hierarchy.Client OU tree for one organization.
type Client struct {
	org      API
	pollWait time.Duration
}

var (
	_ lifecycle.Tower  = (*Client)(nil)
	_ hierarchy.Client = (*Client)(nil)
)

// New assumes roleARN through STS and verifies the credentials work
// before anything is mutated.
func New(ctx context.Context, roleARN, region string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS configuration")
	}

	stsClient := sts.NewFromConfig(cfg)
	cfg.Credentials = aws.NewCredentialsCache(stscreds.NewAssumeRoleProvider(stsClient, roleARN))

	ident, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to authenticate as %s", roleARN)
	}
	log.Debug("authenticated to the organization", "arn", aws.ToString(ident.Arn))

	return NewWithAPI(organizations.NewFromConfig(cfg)), nil
}

// NewWithAPI wraps an already-configured Organizations client.
func NewWithAPI(api API) *Client {
	return &Client{org: api, pollWait: 5 * time.Second}
}

// Root returns the organization root. AWS guarantees exactly one.
func (c *Client) Root(ctx context.Context) (hierarchy.Node, error) {
	out, err := c.org.ListRoots(ctx, &organizations.ListRootsInput{})
	if err != nil {
		return hierarchy.Node{}, errors.Wrap(err, "failed to list organization roots")
	}
	if len(out.Roots) == 0 {
		return hierarchy.Node{}, errors.New("the organization has no root")
	}
	root := out.Roots[0]
	return hierarchy.Node{ID: aws.ToString(root.Id), Name: aws.ToString(root.Name)}, nil
}

// Child looks up a direct child OU of parent by name, paging through
// the listing since names are not addressable directly.
func (c *Client) Child(ctx context.Context, parent hierarchy.Node, name string) (hierarchy.Node, bool, error) {
	var nextToken *string
	for {
		out, err := c.org.ListOrganizationalUnitsForParent(ctx, &organizations.ListOrganizationalUnitsForParentInput{
			ParentId:  aws.String(parent.ID),
			NextToken: nextToken,
		})
		if err != nil {
			return hierarchy.Node{}, false, errors.Wrapf(err, "failed to list organizational units under %q", parent.Name)
		}
		for _, ou := range out.OrganizationalUnits {
			if aws.ToString(ou.Name) == name {
				return hierarchy.Node{ID: aws.ToString(ou.Id), Name: name}, true, nil
			}
		}
		if nextToken = out.NextToken; nextToken == nil {
			return hierarchy.Node{}, false, nil
		}
	}
}

// CreateChild creates a direct child OU under parent.
func (c *Client) CreateChild(ctx context.Context, parent hierarchy.Node, name string) (hierarchy.Node, error) {
	out, err := c.org.CreateOrganizationalUnit(ctx, &organizations.CreateOrganizationalUnitInput{
		ParentId: aws.String(parent.ID),
		Name:     aws.String(name),
	})
	if err != nil {
		return hierarchy.Node{}, errors.Wrapf(err, "failed to create organizational unit %q under %q", name, parent.Name)
	}
	log.Info("created organizational unit", "name", name, "parent", parent.Name)
	return hierarchy.Node{ID: aws.ToString(out.OrganizationalUnit.Id), Name: name}, nil
}

// CreateAccount provisions the account, waits for the asynchronous
// creation to settle, moves it under the target OU and tags it with the
// product and SSO identity fields.
func (c *Client) CreateAccount(ctx context.Context, req lifecycle.CreateAccountRequest) (string, error) {
	out, err := c.org.CreateAccount(ctx, &organizations.CreateAccountInput{
		AccountName:            aws.String(req.Name),
		Email:                  aws.String(req.Email),
		IamUserAccessToBilling: types.IAMUserAccessToBillingAllow,
	})
	if err != nil {
		return "", errors.Wrap(err, "the account factory rejected the request")
	}

	status, err := c.waitForCreation(ctx, out.CreateAccountStatus)
	if err != nil {
		return "", err
	}
	accountID := aws.ToString(status.AccountId)
	log.Info("account provisioned", "id", accountID, "name", req.Name)

	root, err := c.Root(ctx)
	if err != nil {
		return "", err
	}
	if req.OU.ID != "" && req.OU.ID != root.ID {
		if _, err := c.org.MoveAccount(ctx, &organizations.MoveAccountInput{
			AccountId:           aws.String(accountID),
			SourceParentId:      aws.String(root.ID),
			DestinationParentId: aws.String(req.OU.ID),
		}); err != nil {
			return "", errors.Wrapf(err, "failed to move account %s into %q", accountID, req.OU.Name)
		}
	}

	if err := c.tagAccount(ctx, accountID, req); err != nil {
		return "", err
	}
	return accountID, nil
}

func (c *Client) waitForCreation(ctx context.Context, status *types.CreateAccountStatus) (*types.CreateAccountStatus, error) {
	for {
		switch status.State {
		case types.CreateAccountStateSucceeded:
			return status, nil
		case types.CreateAccountStateFailed:
			return nil, errors.Newf("account creation failed: %s", status.FailureReason)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "account creation interrupted; the factory may still complete it")
		case <-time.After(c.pollWait):
		}

		out, err := c.org.DescribeCreateAccountStatus(ctx, &organizations.DescribeCreateAccountStatusInput{
			CreateAccountRequestId: status.Id,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to poll the account creation status")
		}
		status = out.CreateAccountStatus
	}
}

func (c *Client) tagAccount(ctx context.Context, accountID string, req lifecycle.CreateAccountRequest) error {
	tags := map[string]string{
		productNameTag:  req.ProductName,
		ssoEmailTag:     req.SSOEmail,
		ssoFirstNameTag: req.SSOFirstName,
		ssoLastNameTag:  req.SSOLastName,
	}
	tagStructs := make([]types.Tag, 0, len(tags))
	for key, value := range tags {
		if value == "" {
			continue
		}
		tagStructs = append(tagStructs, types.Tag{Key: aws.String(key), Value: aws.String(value)})
	}
	if len(tagStructs) == 0 {
		return nil
	}
	if _, err := c.org.TagResource(ctx, &organizations.TagResourceInput{
		ResourceId: aws.String(accountID),
		Tags:       tagStructs,
	}); err != nil {
		return errors.Wrapf(err, "failed to tag account %s", accountID)
	}
	return nil
}
