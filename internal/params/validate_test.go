package params

import "testing"

func TestEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid plain", "root@example.com", false},
		{"valid plus tag", "root+prod@example.com", false},
		{"invalid missing domain", "root@", true},
		{"invalid missing at", "root.example.com", true},
		{"invalid spaces", "root @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Email(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Email(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestRegion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid eu", "eu-west-1", false},
		{"valid govcloud", "us-gov-west-1", false},
		{"valid ap", "ap-southeast-2", false},
		{"invalid uppercase", "EU-WEST-1", true},
		{"invalid missing number", "eu-west", true},
		{"invalid plain word", "europe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Region(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Region(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestRoleARN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid role", "arn:aws:iam::123456789012:role/ControlTowerAdmin", false},
		{"valid nested path", "arn:aws:iam::123456789012:role/service/Admin", false},
		{"invalid account id", "arn:aws:iam::12345:role/Admin", true},
		{"invalid resource type", "arn:aws:iam::123456789012:user/Admin", true},
		{"invalid partition", "arn:gcp:iam::123456789012:role/Admin", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := RoleARN(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("RoleARN(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestDeviceSerial(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid default device", "arn:aws:iam::123456789012:mfa/root-account-mfa-device", false},
		{"valid custom device", "arn:aws:iam::210987654321:mfa/backup.device@ops", false},
		{"invalid short account id", "arn:aws:iam::1234:mfa/device", true},
		{"invalid role resource", "arn:aws:iam::123456789012:role/device", true},
		{"invalid empty device name", "arn:aws:iam::123456789012:mfa/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := DeviceSerial(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("DeviceSerial(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestResetURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid link", ResetURLPrefix + "abcdef123456", false},
		{"invalid empty token", ResetURLPrefix, true},
		{"invalid other host", "https://example.com/resetpassword?type=RootUser&token=x", true},
		{"invalid iam user link", "https://signin.aws.amazon.com/resetpassword?type=IAMUser&token=x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ResetURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ResetURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid mixed", "Sup3rsecret", false},
		{"invalid too short", "Ab1", true},
		{"invalid no digit", "Supersecret", true},
		{"invalid no upper", "sup3rsecret", true},
		{"invalid no lower", "SUP3RSECRET", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Password(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Password(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"debug", "info", "warning", "error"} {
		if err := LogLevel(level); err != nil {
			t.Errorf("LogLevel(%q) error = %v", level, err)
		}
	}
	if err := LogLevel("verbose"); err == nil {
		t.Error("LogLevel(verbose) expected error")
	}
}
