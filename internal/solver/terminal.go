package solver

import (
	"context"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"
)

// Terminal asks the operator to solve the captcha by hand. It is the
// fallback when no solving-service token is configured.
type Terminal struct{}

func (Terminal) Solve(ctx context.Context, challenge Challenge) (string, error) {
	var answer string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Captcha required").
				Description("Open " + challenge.ImageURL + " in a browser and type the characters you see").
				Value(&answer).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("the captcha answer is required")
					}
					return nil
				}),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		return "", errors.Wrap(err, "captcha not solved")
	}
	return strings.TrimSpace(answer), nil
}
