package hltb

import (
	"context"
	"os/exec"
	"strings"

	"github.com/playshelf/gamesync/pkg/constants"
	"github.com/playshelf/gamesync/pkg/errors"
)

// TokenProvider supplies the session token the estimate API requires. The
// client does not know or care how the token is obtained; today it comes
// from a browser-driven capture helper, but anything that can produce the
// string works.
type TokenProvider interface {
	// Capture obtains a fresh token, failing with ErrAuthCaptureTimeout
	// when it cannot do so within its bounded wait.
	Capture(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider that always returns the same token.
// Useful for tests and for users who capture a token by hand.
type StaticToken string

// Capture implements TokenProvider.
func (t StaticToken) Capture(context.Context) (string, error) {
	if t == "" {
		return "", errors.NewConfigError("hltb", "no session token configured", nil)
	}
	return string(t), nil
}

// CommandProvider obtains a token by running an external capture helper
// (in practice a headless-browser script that intercepts the site's own
// authenticated request) and reading the token from its stdout.
type CommandProvider struct {
	// Command is the helper to run, argv style.
	Command []string
}

// Capture implements TokenProvider. The helper gets a bounded window to
// produce a token; past that the capture counts as failed.
func (p *CommandProvider) Capture(ctx context.Context) (string, error) {
	if len(p.Command) == 0 {
		return "", errors.NewConfigError("hltb", "no token capture command configured", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.AuthCaptureTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, p.Command[0], p.Command[1:]...).Output()
	if ctx.Err() != nil {
		return "", errors.ErrAuthCaptureTimeout
	}
	if err != nil {
		var output string
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output = string(exitErr.Stderr)
		}
		return "", &errors.ProcessError{
			Operation: "token capture",
			Command:   strings.Join(p.Command, " "),
			Output:    output,
			Err:       err,
		}
	}

	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", errors.NewConfigError("hltb", "token capture command produced no output", nil)
	}
	return token, nil
}
