// Package mfa holds the virtual MFA device model: the secret seed a
// device is enrolled with, the ARN-shaped serial it is addressed by
// afterwards, and the TOTP codes that bridge the two during enrollment.
package mfa

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"regexp"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pquerna/otp/totp"
)

// DefaultDeviceName is used when no device name is given.
const DefaultDeviceName = "root-account-mfa-device"

const seedBytes = 20

var seedEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Seed is the base32-encoded TOTP secret of a virtual MFA device.
type Seed string

// NewSeed returns a fresh random seed.
func NewSeed() (Seed, error) {
	buf := make([]byte, seedBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate an MFA seed")
	}
	return Seed(seedEncoding.EncodeToString(buf)), nil
}

// Codes derives the two consecutive one-time codes enrollment requires:
// the code for the period containing now and the code for the period
// after it.
func (s Seed) Codes(now time.Time) (string, string, error) {
	first, err := totp.GenerateCode(string(s), now)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to derive a one-time code from the seed")
	}
	second, err := totp.GenerateCode(string(s), now.Add(30*time.Second))
	if err != nil {
		return "", "", errors.Wrap(err, "failed to derive a one-time code from the seed")
	}
	return first, second, nil
}

// Code derives the one-time code for the period containing now.
func (s Seed) Code(now time.Time) (string, error) {
	code, err := totp.GenerateCode(string(s), now)
	if err != nil {
		return "", errors.Wrap(err, "failed to derive a one-time code from the seed")
	}
	return code, nil
}

var serialRe = regexp.MustCompile(`^arn:aws:iam::(\d{12}):mfa/([\w+=,.@-]+)$`)

// Serial identifies an enrolled virtual MFA device. It encodes exactly
// one account and one device name.
type Serial struct {
	AccountID  string
	DeviceName string
}

// String renders the ARN form: arn:aws:iam::ACCOUNTID:mfa/DEVICE_NAME.
func (s Serial) String() string {
	return fmt.Sprintf("arn:aws:iam::%s:mfa/%s", s.AccountID, s.DeviceName)
}

// ParseSerial parses the ARN form of a device serial.
func ParseSerial(value string) (Serial, error) {
	m := serialRe.FindStringSubmatch(value)
	if m == nil {
		return Serial{}, errors.Newf("%q is not an MFA device serial (arn:aws:iam::ACCOUNTID:mfa/DEVICE_NAME)", value)
	}
	return Serial{AccountID: m[1], DeviceName: m[2]}, nil
}
