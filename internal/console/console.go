// Package console automates the AWS root console: the signin endpoints
// for password bootstrap and the billing portal endpoints for account
// management. It implements the lifecycle Manager and PasswordManager
// collaborators. Captcha challenges raised by the signin endpoints are
// delegated to an injected solver.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/awsalf/alf/internal/solver"
)

const (
	defaultSigninURL = "https://signin.aws.amazon.com"
	defaultPortalURL = "https://portal.aws.amazon.com/billing"

	signinPath = "/signin"
	resetPath  = "/resetpassword"

	accountPath       = "/rest/v1.0/account"
	accountClosePath  = "/rest/v1.0/account/close"
	iamAccessPath     = "/rest/v1.0/account/iamaccess"
	mfaPath           = "/rest/v1.0/account/mfa"
	mfaDeactivatePath = "/rest/v1.0/account/mfa/deactivate"

	stateSuccess = "SUCCESS"

	// The signin endpoints hand out at most a few captchas per attempt;
	// beyond this something else is wrong.
	maxCaptchaAttempts = 3
)

// signinResponse is the envelope the signin endpoints answer with.
type signinResponse struct {
	State      string `json:"state"`
	Properties struct {
		CaptchaURL string `json:"CaptchaURL"`
		CES        string `json:"CES"`
		Message    string `json:"Message"`
	} `json:"properties"`
}

type settings struct {
	signinURL string
	portalURL string
	client    *http.Client
	solver    solver.Solver
	now       func() time.Time
}

// Option adjusts a console client.
type Option func(*settings)

// WithSigninURL points the client at a different signin endpoint.
func WithSigninURL(base string) Option {
	return func(s *settings) { s.signinURL = strings.TrimSuffix(base, "/") }
}

// WithPortalURL points the client at a different billing portal.
func WithPortalURL(base string) Option {
	return func(s *settings) { s.portalURL = strings.TrimSuffix(base, "/") }
}

// WithHTTPClient replaces the underlying HTTP client. The client's
// cookie jar carries the console session.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) { s.client = client }
}

// WithSolver installs the captcha-solving capability.
func WithSolver(slv solver.Solver) Option {
	return func(s *settings) { s.solver = slv }
}

// WithClock replaces the time source used for one-time codes.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func newSettings(opts []Option) settings {
	jar, _ := cookiejar.New(nil)
	s := settings{
		signinURL: defaultSigninURL,
		portalURL: defaultPortalURL,
		client:    &http.Client{Timeout: 60 * time.Second, Jar: jar},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// submitForm posts a signin form, solving captchas as the endpoint
// raises them, until the endpoint reports success or a terminal error.
func submitForm(ctx context.Context, s settings, endpoint string, form url.Values) (*signinResponse, error) {
	for attempt := 0; attempt <= maxCaptchaAttempts; attempt++ {
		resp, err := postForm(ctx, s.client, endpoint, form)
		if err != nil {
			return nil, err
		}
		if resp.State == stateSuccess {
			return resp, nil
		}

		if resp.Properties.CaptchaURL == "" {
			return nil, errors.Newf("the console rejected the request: %s", failureMessage(resp))
		}
		if s.solver == nil {
			return nil, errors.New("the console requires a captcha and no solver is configured")
		}

		image, err := fetch(ctx, s.client, resp.Properties.CaptchaURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to fetch the captcha image")
		}
		guess, err := s.solver.Solve(ctx, solver.Challenge{
			ImageURL: resp.Properties.CaptchaURL,
			Image:    image,
		})
		if err != nil {
			return nil, errors.Wrap(err, "captcha unsolved")
		}
		log.Debug("submitting captcha guess", "attempt", attempt+1)
		form.Set("captcha_guess", guess)
		form.Set("captcha_token", resp.Properties.CES)
	}
	return nil, errors.Newf("the console kept raising captchas after %d attempts", maxCaptchaAttempts)
}

func failureMessage(resp *signinResponse) string {
	if resp.Properties.Message != "" {
		return resp.Properties.Message
	}
	if resp.State != "" {
		return resp.State
	}
	return "no failure detail provided"
}

func postForm(ctx context.Context, client *http.Client, endpoint string, form url.Values) (*signinResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build the console request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "console request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("the console responded with status %d", resp.StatusCode)
	}
	var parsed signinResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "failed to parse the console response")
	}
	return &parsed, nil
}

func fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("fetching %s returned status %d", rawURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// portalJSON performs one authenticated billing-portal call, decoding
// the JSON answer into result when it is non-nil.
func portalJSON(ctx context.Context, s settings, method, path string, body, result any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode the portal request")
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.portalURL+path, payload)
	if err != nil {
		return errors.Wrap(err, "failed to build the portal request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "portal request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Newf("the portal responded with status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return errors.Wrap(err, "failed to parse the portal response")
		}
	}
	return nil
}
