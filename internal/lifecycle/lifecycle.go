// Package lifecycle defines the nine account workflows and the
// collaborator interfaces they orchestrate. A workflow is a short,
// fixed sequence of collaborator calls over an already-resolved set of
// options: it never retries (the collaborators own their retry policy),
// never verifies the operator's advisory preconditions, and forwards
// errors unchanged.
package lifecycle

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/awsalf/alf/internal/hierarchy"
	"github.com/awsalf/alf/internal/mfa"
)

// CreateAccountRequest carries everything the account factory needs to
// provision one account under an already-resolved OU.
type CreateAccountRequest struct {
	Email       string
	Name        string
	ProductName string

	SSOEmail     string
	SSOFirstName string
	SSOLastName  string

	OU hierarchy.Node
}

// Tower is the account factory: it provisions new accounts inside the
// organization.
type Tower interface {
	// CreateAccount provisions the account and returns its id.
	CreateAccount(ctx context.Context, req CreateAccountRequest) (string, error)
}

// Manager drives the root console of one existing account. The
// implementation authenticates lazily with the credentials it was
// built with.
type Manager interface {
	UpdateName(ctx context.Context, name string) error
	UpdateEmail(ctx context.Context, email string) error

	// Suspend places the account in the 90-day reversible hold that
	// precedes its scheduled destruction.
	Suspend(ctx context.Context) error

	ActivateMFA(ctx context.Context, deviceName string, seed mfa.Seed) (mfa.Serial, error)
	DeactivateMFA(ctx context.Context, serial mfa.Serial) error

	EnableBillingAccess(ctx context.Context) error
}

// PasswordManager handles the flows that run before any credentials
// exist: requesting and confirming a root password reset.
type PasswordManager interface {
	RequestReset(ctx context.Context, email string) error
	Reset(ctx context.Context, resetURL, password string) error
}

// CreateOptions parameterizes the create workflow.
type CreateOptions struct {
	Email       string
	Name        string
	ProductName string

	SSOEmail     string
	SSOFirstName string
	SSOLastName  string

	// OUPath is the full requested path, parent hierarchy first, target
	// OU last. Empty means the default landing OU.
	OUPath []string
	Force  bool
}

// Create resolves the target OU and asks the account factory for a new
// account under it.
func Create(ctx context.Context, tower Tower, tree hierarchy.Client, opts CreateOptions, out io.Writer) error {
	target, err := hierarchy.Resolve(ctx, tree, opts.OUPath, opts.Force)
	if err != nil {
		return err
	}
	log.Debug("resolved target organizational unit", "ou", target.Name, "id", target.ID)

	id, err := tower.CreateAccount(ctx, CreateAccountRequest{
		Email:        opts.Email,
		Name:         opts.Name,
		ProductName:  opts.ProductName,
		SSOEmail:     opts.SSOEmail,
		SSOFirstName: opts.SSOFirstName,
		SSOLastName:  opts.SSOLastName,
		OU:           target,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to create account %s", opts.Email)
	}

	writef(out, "Created account %s (%s) under %q.\n", opts.Name, id, target.Name)
	return nil
}

// RequestPasswordReset asks the console to email a reset link for the
// account's root user.
func RequestPasswordReset(ctx context.Context, pm PasswordManager, email string, out io.Writer) error {
	if err := pm.RequestReset(ctx, email); err != nil {
		return errors.Wrapf(err, "failed to request a password reset for %s", email)
	}
	writef(out, "Requested a password reset for %s; the reset link arrives by email.\n", email)
	return nil
}

// ResetPassword consumes a reset link and sets the new root password.
func ResetPassword(ctx context.Context, pm PasswordManager, resetURL, password string, out io.Writer) error {
	if err := pm.Reset(ctx, resetURL, password); err != nil {
		return errors.Wrap(err, "failed to reset the password")
	}
	writef(out, "Password reset.\n")
	return nil
}

// MFAActivate enrolls a virtual MFA device. When no seed is supplied a
// fresh one is derived and reported so the operator can store it.
func MFAActivate(ctx context.Context, mgr Manager, deviceName string, seed mfa.Seed, out io.Writer) (mfa.Serial, error) {
	if deviceName == "" {
		deviceName = mfa.DefaultDeviceName
	}
	if seed == "" {
		generated, err := mfa.NewSeed()
		if err != nil {
			return mfa.Serial{}, err
		}
		seed = generated
		writef(out, "Derived a new MFA seed, store it securely: %s\n", seed)
	}

	serial, err := mgr.ActivateMFA(ctx, deviceName, seed)
	if err != nil {
		return mfa.Serial{}, errors.Wrapf(err, "failed to activate MFA device %q", deviceName)
	}
	writef(out, "Activated MFA device %q with serial %s.\n", deviceName, serial)
	return serial, nil
}

// MFADeactivate removes the virtual MFA device addressed by serial.
func MFADeactivate(ctx context.Context, mgr Manager, serial mfa.Serial, out io.Writer) error {
	if err := mgr.DeactivateMFA(ctx, serial); err != nil {
		return errors.Wrapf(err, "failed to deactivate MFA device %s", serial)
	}
	writef(out, "Deactivated MFA device %s.\n", serial)
	return nil
}

// BillingIAMActivate turns on IAM access to the billing console.
func BillingIAMActivate(ctx context.Context, mgr Manager, email string, out io.Writer) error {
	if err := mgr.EnableBillingAccess(ctx); err != nil {
		return errors.Wrapf(err, "failed to activate billing IAM access on %s", email)
	}
	writef(out, "Activated IAM access to the billing console on %s.\n", email)
	return nil
}

// Terminate suspends the account. The remote side schedules the actual
// destruction after its 90-day grace period; no destroy-after-grace
// operation is exposed here.
func Terminate(ctx context.Context, mgr Manager, email string, out io.Writer) error {
	if err := mgr.Suspend(ctx); err != nil {
		return errors.Wrapf(err, "failed to terminate account %s", email)
	}
	writef(out, "Suspended account %s.\n", email)
	writef(out, "Note: the account enters a 90-day post-closure period before permanent deletion.\n")
	return nil
}

// UpdateEmail changes the account's root email address.
func UpdateEmail(ctx context.Context, mgr Manager, email, newEmail string, out io.Writer) error {
	if err := mgr.UpdateEmail(ctx, newEmail); err != nil {
		return errors.Wrapf(err, "failed to update the email of account %s", email)
	}
	writef(out, "Updated the email of account %s to %s.\n", email, newEmail)
	return nil
}

// UpdateName changes the account's display name.
func UpdateName(ctx context.Context, mgr Manager, email, newName string, out io.Writer) error {
	if err := mgr.UpdateName(ctx, newName); err != nil {
		return errors.Wrapf(err, "failed to update the name of account %s", email)
	}
	writef(out, "Updated the name of account %s to %q.\n", email, newName)
	return nil
}

func writef(out io.Writer, format string, args ...any) {
	if out == nil {
		return
	}
	fmt.Fprintf(out, format, args...)
}
