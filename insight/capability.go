package insight

import "context"

// TextGenerator is the hosted text-generation capability. One of two
// variants is selected at startup: a configured provider client, or
// Unavailable when no API credential is present. Every call is a single
// attempt; there is no retry policy.
type TextGenerator interface {
	// Generate sends role-structured input (system-level instructions plus a
	// user message) and returns the generated text.
	Generate(ctx context.Context, instructions, input string) (string, error)

	// Available reports whether the capability is configured.
	Available() bool
}

// Unavailable is the TextGenerator used when no credential was configured.
// It never crashes a request path; callers degrade to fixed fallbacks.
type Unavailable struct{}

func (Unavailable) Generate(context.Context, string, string) (string, error) {
	return "", ErrGenerationUnavailable
}

func (Unavailable) Available() bool { return false }
