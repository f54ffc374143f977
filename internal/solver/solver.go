// Package solver abstracts captcha solving behind a single-operation
// capability so the lifecycle workflows never depend on a concrete
// solving mechanism. Two implementations are provided: the 2Captcha
// paid service and an interactive terminal fallback.
package solver

import "context"

// Challenge is one captcha as presented by the remote console.
type Challenge struct {
	// ImageURL is where the captcha image was served from.
	ImageURL string

	// Image is the raw captcha image, when the caller already fetched it.
	Image []byte
}

// Solver turns a challenge into the token (the typed characters) the
// remote console expects back.
type Solver interface {
	Solve(ctx context.Context, challenge Challenge) (string, error)
}
