package params

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ResetURLPrefix is the only shape of password-reset link the console
// hands out for root users.
const ResetURLPrefix = "https://signin.aws.amazon.com/resetpassword?type=RootUser&token="

var (
	roleARNRe      = regexp.MustCompile(`^arn:aws:iam::\d{12}:role/[\w+=,.@/-]+$`)
	deviceSerialRe = regexp.MustCompile(`^arn:aws:iam::\d{12}:mfa/[\w+=,.@-]+$`)
	regionRe       = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d$`)
	deviceNameRe   = regexp.MustCompile(`^[\w+=,.@-]{1,128}$`)
	mfaSeedRe      = regexp.MustCompile(`^[A-Z2-7]{16,128}$`)
)

// Email checks an address shape; delivery is the remote side's problem.
func Email(v string) error {
	if err := validate.Var(v, "email"); err != nil {
		return errors.Newf("%q is not a valid email address", v)
	}
	return nil
}

// Region accepts the partition-region-number shape of AWS region names,
// e.g. eu-west-1 or us-gov-west-1.
func Region(v string) error {
	if !regionRe.MatchString(v) {
		return errors.Newf("%q is not a valid AWS region name", v)
	}
	return nil
}

// RoleARN accepts an IAM role ARN, the identity used to reach the
// account factory.
func RoleARN(v string) error {
	if !roleARNRe.MatchString(v) {
		return errors.Newf("%q is not an IAM role ARN (arn:aws:iam::ACCOUNTID:role/NAME)", v)
	}
	return nil
}

// DeviceSerial accepts a virtual MFA device serial.
func DeviceSerial(v string) error {
	if !deviceSerialRe.MatchString(v) {
		return errors.Newf("%q is not an MFA device serial (arn:aws:iam::ACCOUNTID:mfa/DEVICE_NAME)", v)
	}
	return nil
}

// DeviceName accepts a virtual MFA device name.
func DeviceName(v string) error {
	if !deviceNameRe.MatchString(v) {
		return errors.Newf("%q is not a valid MFA device name", v)
	}
	return nil
}

// MFASeed accepts a base32 TOTP seed.
func MFASeed(v string) error {
	if !mfaSeedRe.MatchString(v) {
		return errors.New("the MFA seed must be an unpadded base32 string")
	}
	return nil
}

// ResetURL accepts only the root-user password reset links issued by
// the signin console.
func ResetURL(v string) error {
	if !strings.HasPrefix(v, ResetURLPrefix) || len(v) == len(ResetURLPrefix) {
		return errors.New("the reset link is not a root-user password reset URL")
	}
	return nil
}

// AccountName accepts the account display names the console accepts.
func AccountName(v string) error {
	if len(v) == 0 || len(v) > 50 {
		return errors.New("account names must be between 1 and 50 characters")
	}
	for _, r := range v {
		if !unicode.IsPrint(r) {
			return errors.New("account names must not contain control characters")
		}
	}
	return nil
}

// Password enforces the minimal shape the console enforces for root
// passwords; the remote side has the final say.
func Password(v string) error {
	if len(v) < 8 || len(v) > 128 {
		return errors.New("passwords must be between 8 and 128 characters")
	}
	var lower, upper, digit bool
	for _, r := range v {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return errors.New("passwords need at least one lowercase letter, one uppercase letter and one digit")
	}
	return nil
}

// LogLevel accepts the four supported logging levels.
func LogLevel(v string) error {
	switch v {
	case "debug", "info", "warning", "error":
		return nil
	}
	return errors.Newf("%q is not one of debug, info, warning, error", v)
}
