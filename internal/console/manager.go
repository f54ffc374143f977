package console

import (
	"context"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/awsalf/alf/internal/lifecycle"
	"github.com/awsalf/alf/internal/mfa"
)

// Credentials authenticate the root user of one account. MFASeed is
// only needed when the account already has a virtual MFA device.
type Credentials struct {
	Email    string
	Password string
	Region   string
	MFASeed  mfa.Seed
}

// Manager drives the root console of one account. It signs in lazily on
// the first operation and keeps the session in the HTTP client's cookie
// jar for the calls that follow.
type Manager struct {
	creds    Credentials
	settings settings
	signedIn bool
}

var _ lifecycle.Manager = (*Manager)(nil)

// NewManager builds a console manager for the account owned by creds.
func NewManager(creds Credentials, opts ...Option) *Manager {
	return &Manager{creds: creds, settings: newSettings(opts)}
}

func (m *Manager) ensureSession(ctx context.Context) error {
	if m.signedIn {
		return nil
	}

	form := url.Values{
		"action":   {"authenticateRoot"},
		"email":    {m.creds.Email},
		"password": {m.creds.Password},
		"region":   {m.creds.Region},
	}
	if m.creds.MFASeed != "" {
		code, err := m.creds.MFASeed.Code(m.settings.now())
		if err != nil {
			return errors.Wrap(err, "failed to derive the sign-in MFA code")
		}
		form.Set("mfacode", code)
	}

	if _, err := submitForm(ctx, m.settings, m.settings.signinURL+signinPath, form); err != nil {
		return errors.Wrapf(err, "failed to sign in as the root user of %s", m.creds.Email)
	}
	log.Debug("root console session established", "email", m.creds.Email)
	m.signedIn = true
	return nil
}

// UpdateName changes the account's display name.
func (m *Manager) UpdateName(ctx context.Context, name string) error {
	if err := m.ensureSession(ctx); err != nil {
		return err
	}
	return portalJSON(ctx, m.settings, http.MethodPut, accountPath, map[string]string{
		"accountName": name,
	}, nil)
}

// UpdateEmail changes the root email address.
func (m *Manager) UpdateEmail(ctx context.Context, email string) error {
	if err := m.ensureSession(ctx); err != nil {
		return err
	}
	return portalJSON(ctx, m.settings, http.MethodPut, accountPath, map[string]string{
		"emailAddress": email,
	}, nil)
}

// Suspend closes the account. The closure is reversible during the
// post-closure period, after which it becomes permanent.
func (m *Manager) Suspend(ctx context.Context) error {
	if err := m.ensureSession(ctx); err != nil {
		return err
	}
	return portalJSON(ctx, m.settings, http.MethodPut, accountClosePath, nil, nil)
}

// EnableBillingAccess allows IAM principals into the billing console.
func (m *Manager) EnableBillingAccess(ctx context.Context) error {
	if err := m.ensureSession(ctx); err != nil {
		return err
	}
	return portalJSON(ctx, m.settings, http.MethodPut, iamAccessPath, map[string]bool{
		"billingConsoleAccessEnabled": true,
	}, nil)
}

// ActivateMFA enrolls a virtual MFA device. Enrollment requires two
// consecutive one-time codes so the console can verify the seed.
func (m *Manager) ActivateMFA(ctx context.Context, deviceName string, seed mfa.Seed) (mfa.Serial, error) {
	if err := m.ensureSession(ctx); err != nil {
		return mfa.Serial{}, err
	}

	first, second, err := seed.Codes(m.settings.now())
	if err != nil {
		return mfa.Serial{}, errors.Wrap(err, "failed to derive the enrollment codes")
	}

	var result struct {
		SerialNumber string `json:"serialNumber"`
	}
	if err := portalJSON(ctx, m.settings, http.MethodPost, mfaPath, map[string]string{
		"deviceName":       deviceName,
		"base32StringSeed": string(seed),
		"authCode1":        first,
		"authCode2":        second,
	}, &result); err != nil {
		return mfa.Serial{}, err
	}

	serial, err := mfa.ParseSerial(result.SerialNumber)
	if err != nil {
		return mfa.Serial{}, errors.Wrap(err, "the console returned an unexpected device serial")
	}
	return serial, nil
}

// DeactivateMFA removes the virtual MFA device addressed by serial.
func (m *Manager) DeactivateMFA(ctx context.Context, serial mfa.Serial) error {
	if err := m.ensureSession(ctx); err != nil {
		return err
	}
	return portalJSON(ctx, m.settings, http.MethodPost, mfaDeactivatePath, map[string]string{
		"serialNumber": serial.String(),
	}, nil)
}
