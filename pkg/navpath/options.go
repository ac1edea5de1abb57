package navpath

import (
	"fmt"
	"log/slog"
	"strings"
)

// EmptyPolicy decides what removals from an empty path do.
type EmptyPolicy int

const (
	// EmptyPolicyError makes Pop and PopToRoot return ErrEmptyStack.
	EmptyPolicyError EmptyPolicy = iota
	// EmptyPolicyIgnore makes Pop and PopToRoot silent no-ops.
	EmptyPolicyIgnore
)

func (p EmptyPolicy) String() string {
	switch p {
	case EmptyPolicyError:
		return "error"
	case EmptyPolicyIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseEmptyPolicy parses "error" or "ignore". An empty string selects the
// default EmptyPolicyError.
func ParseEmptyPolicy(raw string) (EmptyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "error":
		return EmptyPolicyError, nil
	case "ignore", "noop", "no-op":
		return EmptyPolicyIgnore, nil
	default:
		return EmptyPolicyError, fmt.Errorf("unknown empty pop policy %q", raw)
	}
}

// Option configures a Path.
type Option func(*Path)

// WithRoot associates root content with the path. The root always paints
// beneath the first entry and is never part of Entries.
func WithRoot(content any) Option {
	return func(p *Path) {
		p.root = content
		p.hasRoot = true
	}
}

// WithLogger sets the logger used for rejected mutations and handler panics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Path) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithEmptyPolicy sets how Pop and PopToRoot behave on an empty path.
func WithEmptyPolicy(policy EmptyPolicy) Option {
	return func(p *Path) {
		p.policy = policy
	}
}

// WithRejectHook registers a callback for rejected mutations.
func WithRejectHook(hook RejectHook) Option {
	return func(p *Path) {
		p.onReject = hook
	}
}
