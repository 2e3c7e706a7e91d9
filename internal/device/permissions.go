package device

import "context"

// Permission is the outcome of a permission prompt.
type Permission int

const (
	PermissionDenied Permission = iota
	PermissionGranted
)

func (p Permission) String() string {
	if p == PermissionGranted {
		return "granted"
	}
	return "denied"
}

// Prompter asks the user for location access.
type Prompter interface {
	RequestLocation(ctx context.Context) Permission
}

// StaticPrompter answers every prompt the same way. The terminal has no
// permission dialog, so the answer comes from config.
type StaticPrompter struct {
	Granted bool
}

// RequestLocation returns the configured answer.
func (s StaticPrompter) RequestLocation(context.Context) Permission {
	if s.Granted {
		return PermissionGranted
	}
	return PermissionDenied
}
