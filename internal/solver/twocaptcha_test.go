package solver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestTwoCaptchaSolve(t *testing.T) {
	t.Parallel()

	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case submitPath:
			if err := r.ParseForm(); err != nil {
				t.Errorf("ParseForm() error = %v", err)
			}
			if r.PostFormValue("method") != "base64" {
				t.Errorf("method = %q, want base64", r.PostFormValue("method"))
			}
			if r.PostFormValue("key") != "api-token" {
				t.Errorf("key = %q, want api-token", r.PostFormValue("key"))
			}
			writeJSON(t, w, apiResponse{Status: 1, Request: "captcha-42"})
		case resultPath:
			if r.URL.Query().Get("id") != "captcha-42" {
				t.Errorf("id = %q, want captcha-42", r.URL.Query().Get("id"))
			}
			if polls.Add(1) < 2 {
				writeJSON(t, w, apiResponse{Status: 0, Request: notReadyStatus})
				return
			}
			writeJSON(t, w, apiResponse{Status: 1, Request: "XW9PF"})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()

	solver := NewTwoCaptcha("api-token",
		WithBaseURL(server.URL),
		WithPollInterval(time.Millisecond),
	)

	answer, err := solver.Solve(t.Context(), Challenge{Image: []byte("png-bytes")})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if answer != "XW9PF" {
		t.Errorf("Solve() = %q, want XW9PF", answer)
	}
	if polls.Load() < 2 {
		t.Errorf("polled %d times, expected to wait through a not-ready answer", polls.Load())
	}
}

func TestTwoCaptchaSolveFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case submitPath:
			writeJSON(t, w, apiResponse{Status: 1, Request: "captcha-1"})
		case resultPath:
			writeJSON(t, w, apiResponse{Status: 0, Request: "ERROR_CAPTCHA_UNSOLVABLE"})
		}
	}))
	defer server.Close()

	solver := NewTwoCaptcha("api-token",
		WithBaseURL(server.URL),
		WithPollInterval(time.Millisecond),
	)

	if _, err := solver.Solve(t.Context(), Challenge{Image: []byte("png")}); err == nil {
		t.Fatal("Solve() expected error for an unsolvable captcha")
	}
}

func TestTwoCaptchaSolveRequiresImage(t *testing.T) {
	t.Parallel()

	solver := NewTwoCaptcha("api-token")
	if _, err := solver.Solve(t.Context(), Challenge{ImageURL: "https://example.com/c.png"}); err == nil {
		t.Fatal("Solve() expected error without image bytes")
	}
}

func TestTwoCaptchaBalance(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "getbalance" {
			t.Errorf("action = %q, want getbalance", r.URL.Query().Get("action"))
		}
		writeJSON(t, w, apiResponse{Status: 1, Request: "12.345"})
	}))
	defer server.Close()

	solver := NewTwoCaptcha("api-token", WithBaseURL(server.URL))
	balance, err := solver.Balance(t.Context())
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if balance != "12.345" {
		t.Errorf("Balance() = %q, want 12.345", balance)
	}
}

func TestTwoCaptchaBalanceRejectsBadToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, apiResponse{Status: 0, Request: "ERROR_WRONG_USER_KEY"})
	}))
	defer server.Close()

	solver := NewTwoCaptcha("bad-token", WithBaseURL(server.URL))
	if _, err := solver.Balance(t.Context()); err == nil {
		t.Fatal("Balance() expected error for a rejected token")
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}
