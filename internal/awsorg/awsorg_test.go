package awsorg

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"

	"github.com/awsalf/alf/internal/hierarchy"
	"github.com/awsalf/alf/internal/lifecycle"
)

// fakeOrg fakes the Organizations API surface the client uses: a root,
// one level of OUs per parent, and an asynchronous account creation
// that succeeds on the second status poll.
type fakeOrg struct {
	ous       map[string][]types.OrganizationalUnit // parent id -> children
	moved     []string
	tagged    map[string][]string
	pollsLeft int
}

func newFakeOrg() *fakeOrg {
	return &fakeOrg{
		ous:    make(map[string][]types.OrganizationalUnit),
		tagged: make(map[string][]string),
	}
}

func (f *fakeOrg) ListRoots(context.Context, *organizations.ListRootsInput, ...func(*organizations.Options)) (*organizations.ListRootsOutput, error) {
	return &organizations.ListRootsOutput{Roots: []types.Root{{
		Id:   aws.String("r-root"),
		Name: aws.String("Root"),
	}}}, nil
}

func (f *fakeOrg) ListOrganizationalUnitsForParent(_ context.Context, in *organizations.ListOrganizationalUnitsForParentInput, _ ...func(*organizations.Options)) (*organizations.ListOrganizationalUnitsForParentOutput, error) {
	return &organizations.ListOrganizationalUnitsForParentOutput{
		OrganizationalUnits: f.ous[aws.ToString(in.ParentId)],
	}, nil
}

func (f *fakeOrg) CreateOrganizationalUnit(_ context.Context, in *organizations.CreateOrganizationalUnitInput, _ ...func(*organizations.Options)) (*organizations.CreateOrganizationalUnitOutput, error) {
	parent := aws.ToString(in.ParentId)
	ou := types.OrganizationalUnit{
		Id:   aws.String("ou-" + aws.ToString(in.Name)),
		Name: in.Name,
	}
	f.ous[parent] = append(f.ous[parent], ou)
	return &organizations.CreateOrganizationalUnitOutput{OrganizationalUnit: &ou}, nil
}

func (f *fakeOrg) CreateAccount(context.Context, *organizations.CreateAccountInput, ...func(*organizations.Options)) (*organizations.CreateAccountOutput, error) {
	f.pollsLeft = 1
	return &organizations.CreateAccountOutput{CreateAccountStatus: &types.CreateAccountStatus{
		Id:    aws.String("car-1"),
		State: types.CreateAccountStateInProgress,
	}}, nil
}

func (f *fakeOrg) DescribeCreateAccountStatus(context.Context, *organizations.DescribeCreateAccountStatusInput, ...func(*organizations.Options)) (*organizations.DescribeCreateAccountStatusOutput, error) {
	if f.pollsLeft > 0 {
		f.pollsLeft--
		return &organizations.DescribeCreateAccountStatusOutput{CreateAccountStatus: &types.CreateAccountStatus{
			Id:    aws.String("car-1"),
			State: types.CreateAccountStateInProgress,
		}}, nil
	}
	return &organizations.DescribeCreateAccountStatusOutput{CreateAccountStatus: &types.CreateAccountStatus{
		Id:        aws.String("car-1"),
		State:     types.CreateAccountStateSucceeded,
		AccountId: aws.String("123456789012"),
	}}, nil
}

func (f *fakeOrg) MoveAccount(_ context.Context, in *organizations.MoveAccountInput, _ ...func(*organizations.Options)) (*organizations.MoveAccountOutput, error) {
	f.moved = append(f.moved, aws.ToString(in.AccountId)+"->"+aws.ToString(in.DestinationParentId))
	return &organizations.MoveAccountOutput{}, nil
}

func (f *fakeOrg) TagResource(_ context.Context, in *organizations.TagResourceInput, _ ...func(*organizations.Options)) (*organizations.TagResourceOutput, error) {
	for _, tag := range in.Tags {
		f.tagged[aws.ToString(in.ResourceId)] = append(
			f.tagged[aws.ToString(in.ResourceId)],
			aws.ToString(tag.Key)+"="+aws.ToString(tag.Value),
		)
	}
	return &organizations.TagResourceOutput{}, nil
}

func newTestClient(api API) *Client {
	c := NewWithAPI(api)
	c.pollWait = time.Millisecond
	return c
}

func TestChildLookup(t *testing.T) {
	t.Parallel()

	org := newFakeOrg()
	org.ous["r-root"] = []types.OrganizationalUnit{
		{Id: aws.String("ou-custom"), Name: aws.String("Custom")},
	}
	client := newTestClient(org)

	root, err := client.Root(t.Context())
	if err != nil {
		t.Fatalf("Root() error = %v", err)
	}

	node, found, err := client.Child(t.Context(), root, "Custom")
	if err != nil {
		t.Fatalf("Child() error = %v", err)
	}
	if !found || node.ID != "ou-custom" {
		t.Errorf("Child() = %+v found=%v, want ou-custom", node, found)
	}

	_, found, err = client.Child(t.Context(), root, "Missing")
	if err != nil {
		t.Fatalf("Child() error = %v", err)
	}
	if found {
		t.Error("Child() found an OU that does not exist")
	}
}

func TestResolveAgainstOrganizationsAPI(t *testing.T) {
	t.Parallel()

	org := newFakeOrg()
	org.ous["r-root"] = []types.OrganizationalUnit{
		{Id: aws.String("ou-a"), Name: aws.String("A")},
	}
	client := newTestClient(org)

	target, err := hierarchy.Resolve(t.Context(), client, []string{"A", "B"}, true)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if target.ID != "ou-B" {
		t.Errorf("target = %+v, want the created ou-B", target)
	}
	if len(org.ous["ou-a"]) != 1 {
		t.Errorf("children of A = %+v, want exactly the created B", org.ous["ou-a"])
	}
}

func TestCreateAccountMovesAndTags(t *testing.T) {
	t.Parallel()

	org := newFakeOrg()
	client := newTestClient(org)

	id, err := client.CreateAccount(t.Context(), lifecycle.CreateAccountRequest{
		Email:        "prod@example.com",
		Name:         "prod",
		ProductName:  "prod",
		SSOEmail:     "prod@example.com",
		SSOFirstName: "Control",
		SSOLastName:  "Tower",
		OU:           hierarchy.Node{ID: "ou-prod", Name: "Prod"},
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if id != "123456789012" {
		t.Errorf("CreateAccount() = %q, want the provisioned account id", id)
	}

	if len(org.moved) != 1 || org.moved[0] != "123456789012->ou-prod" {
		t.Errorf("moves = %v, want the account moved into ou-prod", org.moved)
	}

	tags := org.tagged["123456789012"]
	if len(tags) != 4 {
		t.Errorf("tags = %v, want product name and the three SSO identity fields", tags)
	}
}
