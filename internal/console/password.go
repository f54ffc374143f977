package console

import (
	"context"
	"net/url"

	"github.com/cockroachdb/errors"

	"github.com/awsalf/alf/internal/lifecycle"
)

// PasswordManager runs the password flows that need no established
// session: requesting a reset link and consuming one. Both flows are
// captcha-gated by the signin endpoints.
type PasswordManager struct {
	settings settings
}

var _ lifecycle.PasswordManager = (*PasswordManager)(nil)

// NewPasswordManager builds the unauthenticated password client.
func NewPasswordManager(opts ...Option) *PasswordManager {
	return &PasswordManager{settings: newSettings(opts)}
}

// RequestReset asks the console to email a password reset link to the
// account's root user.
func (p *PasswordManager) RequestReset(ctx context.Context, email string) error {
	form := url.Values{
		"action": {"captcha"},
		"email":  {email},
	}
	if _, err := submitForm(ctx, p.settings, p.settings.signinURL+resetPath, form); err != nil {
		return errors.Wrapf(err, "the console declined the reset request for %s", email)
	}
	return nil
}

// Reset consumes the emailed reset link and sets password as the new
// root password.
func (p *PasswordManager) Reset(ctx context.Context, resetURL, password string) error {
	token, err := resetToken(resetURL)
	if err != nil {
		return err
	}

	form := url.Values{
		"action":      {"resetPasswordSubmitForm"},
		"token":       {token},
		"newpassword": {password},
	}
	if _, err := submitForm(ctx, p.settings, p.settings.signinURL+resetPath, form); err != nil {
		return errors.Wrap(err, "the console declined the new password")
	}
	return nil
}

func resetToken(resetURL string) (string, error) {
	parsed, err := url.Parse(resetURL)
	if err != nil {
		return "", errors.Wrap(err, "the reset link is not a valid URL")
	}
	token := parsed.Query().Get("token")
	if token == "" {
		return "", errors.New("the reset link carries no token")
	}
	return token, nil
}
