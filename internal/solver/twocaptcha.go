package solver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	defaultTwoCaptchaURL = "https://2captcha.com"

	submitPath = "/in.php"
	resultPath = "/res.php"

	notReadyStatus = "CAPCHA_NOT_READY"
)

// TwoCaptcha solves image captchas through the 2captcha.com REST API.
// The service solves asynchronously: a submission returns an id which
// is then polled for the answer.
type TwoCaptcha struct {
	token    string
	baseURL  string
	client   *http.Client
	pollWait time.Duration
}

// TwoCaptchaOption adjusts a TwoCaptcha client.
type TwoCaptchaOption func(*TwoCaptcha)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(base string) TwoCaptchaOption {
	return func(t *TwoCaptcha) { t.baseURL = strings.TrimSuffix(base, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) TwoCaptchaOption {
	return func(t *TwoCaptcha) { t.client = client }
}

// WithPollInterval changes how often the result endpoint is polled.
func WithPollInterval(d time.Duration) TwoCaptchaOption {
	return func(t *TwoCaptcha) { t.pollWait = d }
}

// NewTwoCaptcha returns a solver backed by the given API token.
func NewTwoCaptcha(token string, opts ...TwoCaptchaOption) *TwoCaptcha {
	t := &TwoCaptcha{
		token:    token,
		baseURL:  defaultTwoCaptchaURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		pollWait: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type apiResponse struct {
	Status  int    `json:"status"`
	Request string `json:"request"`
}

// Solve submits the challenge image and polls until the service returns
// the answer or ctx is cancelled.
func (t *TwoCaptcha) Solve(ctx context.Context, challenge Challenge) (string, error) {
	if len(challenge.Image) == 0 {
		return "", errors.New("2captcha needs the captcha image bytes")
	}

	form := url.Values{
		"key":    {t.token},
		"method": {"base64"},
		"body":   {base64.StdEncoding.EncodeToString(challenge.Image)},
		"json":   {"1"},
	}
	submitted, err := t.call(ctx, http.MethodPost, submitPath, form)
	if err != nil {
		return "", err
	}
	if submitted.Status != 1 {
		return "", errors.Newf("2captcha rejected the captcha: %s", submitted.Request)
	}

	query := url.Values{
		"key":    {t.token},
		"action": {"get"},
		"id":     {submitted.Request},
		"json":   {"1"},
	}
	for {
		select {
		case <-ctx.Done():
			return "", errors.Wrap(ctx.Err(), "captcha solving interrupted")
		case <-time.After(t.pollWait):
		}

		result, err := t.call(ctx, http.MethodGet, resultPath+"?"+query.Encode(), nil)
		if err != nil {
			return "", err
		}
		if result.Status == 1 {
			return result.Request, nil
		}
		if result.Request != notReadyStatus {
			return "", errors.Newf("2captcha failed to solve the captcha: %s", result.Request)
		}
	}
}

// Balance returns the remaining account balance. Used to reject dead
// API tokens before any workflow starts.
func (t *TwoCaptcha) Balance(ctx context.Context) (string, error) {
	query := url.Values{
		"key":    {t.token},
		"action": {"getbalance"},
		"json":   {"1"},
	}
	result, err := t.call(ctx, http.MethodGet, resultPath+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	if result.Status != 1 {
		return "", errors.Newf("2captcha rejected the API token: %s", result.Request)
	}
	return result.Request, nil
}

func (t *TwoCaptcha) call(ctx context.Context, method, path string, form url.Values) (*apiResponse, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build the 2captcha request")
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "2captcha request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("2captcha responded with status %d", resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "failed to parse the 2captcha response")
	}
	return &parsed, nil
}
