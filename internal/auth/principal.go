// Package auth resolves bearer credentials into verified principals and
// decides whether a principal may act on a resource.
package auth

import "context"

// Principal is a verified caller identity. It can only be built in this
// package, from claims an IdentityProvider has verified.
type Principal struct {
	subjectID     string
	email         string
	emailVerified *bool
}

func principalFromClaims(c *Claims) Principal {
	p := Principal{subjectID: c.Subject, email: c.Email}
	if c.EmailVerified != nil {
		v := *c.EmailVerified
		p.emailVerified = &v
	}
	return p
}

// SubjectID is the identity provider's stable identifier for the caller.
func (p Principal) SubjectID() string { return p.subjectID }

// Email is the verified email claim, or "" when the token carried none.
func (p Principal) Email() string { return p.email }

// EmailVerified returns the email_verified claim; ok is false when absent.
func (p Principal) EmailVerified() (verified, ok bool) {
	if p.emailVerified == nil {
		return false, false
	}
	return *p.emailVerified, true
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by the auth middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.subjectID == "" {
		return Principal{}, false
	}
	return p, true
}
