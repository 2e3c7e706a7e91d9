package device

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrInvalidPhone is returned for numbers with no digits.
var ErrInvalidPhone = errors.New("invalid phone number")

// Dialer hands a tel: URI to the platform opener.
type Dialer struct {
	opener string
	run    func(ctx context.Context, name string, args ...string) error
}

// NewDialer picks the opener for the current platform.
func NewDialer() *Dialer {
	return &Dialer{opener: platformOpener(runtime.GOOS), run: runCommand}
}

func platformOpener(goos string) string {
	switch goos {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// TelURI normalizes phone into a tel: URI, keeping digits and a leading +.
func TelURI(phone string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	digits := strings.TrimPrefix(b.String(), "+")
	if digits == "" {
		return "", ErrInvalidPhone
	}
	return "tel:" + b.String(), nil
}

// Call launches the phone handler for phone and returns the URI it opened.
func (d *Dialer) Call(ctx context.Context, phone string) (string, error) {
	uri, err := TelURI(phone)
	if err != nil {
		return "", err
	}
	if err := d.run(ctx, d.opener, uri); err != nil {
		return uri, fmt.Errorf("launching call: %w", err)
	}
	return uri, nil
}
