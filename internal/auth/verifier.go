package auth

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/serenify-engagement/internal/metrics"
)

const bearerPrefix = "Bearer "

// Reasons a credential did not resolve to a principal. Used for logs and
// metrics only; callers always see the same generic failure.
const (
	ReasonMissingHeader       = "missing_header"
	ReasonBadScheme           = "bad_scheme"
	ReasonProviderUnavailable = "provider_unavailable"
	ReasonInvalidToken        = "invalid_token"
	ReasonMissingSubject      = "missing_subject"
)

// Verifier turns an Authorization header value into a Principal.
type Verifier struct {
	provider IdentityProvider
	logger   logrus.FieldLogger
}

// NewVerifier creates a verifier. A nil provider means the identity provider
// is not configured and every credential is rejected.
func NewVerifier(provider IdentityProvider, logger logrus.FieldLogger) *Verifier {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Verifier{provider: provider, logger: logger}
}

// Verify returns the verified principal for header, or false. Missing,
// malformed, expired or otherwise rejected credentials are an expected
// outcome, not an error. The provider is called at most once.
func (v *Verifier) Verify(ctx context.Context, header string) (Principal, bool) {
	if header == "" {
		return v.reject(ReasonMissingHeader, nil)
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return v.reject(ReasonBadScheme, nil)
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return v.reject(ReasonBadScheme, nil)
	}
	if v.provider == nil {
		return v.reject(ReasonProviderUnavailable, nil)
	}

	claims, err := v.provider.VerifyToken(ctx, token)
	if err != nil {
		return v.reject(ReasonInvalidToken, err)
	}
	if claims == nil || claims.Subject == "" {
		return v.reject(ReasonMissingSubject, nil)
	}
	return principalFromClaims(claims), true
}

func (v *Verifier) reject(reason string, err error) (Principal, bool) {
	metrics.RecordAuthFailure(reason)
	entry := v.logger.WithField("reason", reason)
	if err != nil {
		entry = entry.WithError(err)
	}
	if reason == ReasonProviderUnavailable {
		entry.Warn("identity provider not configured")
	} else {
		entry.Debug("credential rejected")
	}
	return Principal{}, false
}
