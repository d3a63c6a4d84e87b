package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/nordunet/transcriber-adapter/pkg/reporter"
)

// CheckTokenExpiry inspects the transcriber bearer token's exp claim without
// verifying the signature; verification is the service's job, this side only
// wants advance warning. An already-expired token is a startup error.
func CheckTokenExpiry(token string, rep *reporter.Reporter) error {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("parsing transcriber token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("reading transcriber token expiry: %w", err)
	}
	if exp == nil {
		return fmt.Errorf("transcriber token has no expiry claim")
	}

	remaining := time.Until(exp.Time)
	if remaining < 0 {
		rep.Message("transcriber token has expired")
		return fmt.Errorf("transcriber token has expired")
	}

	days := int(remaining.Hours() / 24)
	switch {
	case days < 7:
		zap.S().Warn("transcriber token expires in less than a week")
		rep.Message("transcriber token expires in less than a week")
	case days < 30:
		zap.S().Warn("transcriber token expires in less than a month")
		rep.Message("transcriber token expires in less than a month")
	}
	return nil
}
