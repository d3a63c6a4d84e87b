package vendorq

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nordunet/transcriber-adapter/internal/config"
	"github.com/nordunet/transcriber-adapter/pkg/reporter"
)

// Admin session type on the vendor side.
const sessionTypeAdmin = 2

const sessionTTL = 24 * time.Hour

// Connect bootstraps an authenticated client: a widget session for the
// partner, then an app-token session derived from it. The app token's own
// expiry is checked here so operators get advance warning before the adapter
// locks itself out.
func Connect(ctx context.Context, cfg *config.VendorConfig, rep *reporter.Reporter) (*Client, error) {
	anon := &Client{serviceURL: cfg.ServiceURL, hc: newHTTPClient()}
	expiry := time.Now().Add(sessionTTL).Unix()

	var widget struct {
		KS string `json:"ks"`
	}
	err := anon.call(ctx, "session", "startWidgetSession", map[string]any{
		"widgetId": fmt.Sprintf("_%d", cfg.PartnerID),
		"expiry":   expiry,
	}, &widget)
	if err != nil {
		return nil, fmt.Errorf("starting widget session: %w", err)
	}

	hash := sha256.Sum256([]byte(widget.KS + cfg.PartnerSecret))
	tokenHash := hex.EncodeToString(hash[:])

	wclient := anon.Scoped(widget.KS)
	var session struct {
		KS string `json:"ks"`
	}
	err = wclient.call(ctx, "apptoken", "startSession", map[string]any{
		"id":        cfg.AppTokenID,
		"tokenHash": tokenHash,
		"type":      sessionTypeAdmin,
		"expiry":    expiry,
	}, &session)
	if err != nil {
		return nil, fmt.Errorf("starting app token session: %w", err)
	}

	client := anon.Scoped(session.KS)

	var token struct {
		Expiry int64 `json:"expiry"`
	}
	if err := client.call(ctx, "apptoken", "get", map[string]any{"id": cfg.AppTokenID}, &token); err != nil {
		return nil, fmt.Errorf("reading app token: %w", err)
	}
	if token.Expiry > 0 {
		warnTokenExpiry(time.Unix(token.Expiry, 0), rep)
	}

	return client, nil
}

func warnTokenExpiry(expiry time.Time, rep *reporter.Reporter) {
	days := int(time.Until(expiry).Hours() / 24)
	switch {
	case days < 7:
		zap.S().Warn("vendor token expires in less than a week")
		rep.Message("vendor token expires in less than a week")
	case days < 30:
		zap.S().Warn("vendor token expires in less than a month")
		rep.Message("vendor token expires in less than a month")
	}
}
