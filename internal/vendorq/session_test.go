package vendorq

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordunet/transcriber-adapter/internal/config"
	"github.com/nordunet/transcriber-adapter/pkg/reporter"
)

func TestConnect(t *testing.T) {
	const (
		widgetKS = "widget-ks"
		adminKS  = "admin-ks"
		secret   = "partner-secret"
	)

	var sawTokenHash string
	mux := http.NewServeMux()
	mux.HandleFunc("/api_v3/service/session/action/startWidgetSession", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "_101", body["widgetId"])
		writeJSON(t, w, map[string]any{"ks": widgetKS})
	})
	mux.HandleFunc("/api_v3/service/apptoken/action/startSession", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, widgetKS, body["ks"])
		assert.Equal(t, "tok_1", body["id"])
		sawTokenHash = body["tokenHash"].(string)
		writeJSON(t, w, map[string]any{"ks": adminKS})
	})
	mux.HandleFunc("/api_v3/service/apptoken/action/get", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, adminKS, body["ks"])
		writeJSON(t, w, map[string]any{"id": "tok_1", "expiry": time.Now().Add(90 * 24 * time.Hour).Unix()})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	rep, err := reporter.New("")
	require.NoError(t, err)

	client, err := Connect(context.Background(), &config.VendorConfig{
		ServiceURL:    srv.URL,
		PartnerID:     101,
		AppTokenID:    "tok_1",
		PartnerSecret: secret,
	}, rep)
	require.NoError(t, err)
	assert.Equal(t, adminKS, client.session)

	expected := sha256.Sum256([]byte(widgetKS + secret))
	assert.Equal(t, hex.EncodeToString(expected[:]), sawTokenHash)
}

func TestConnectUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	url := srv.URL
	srv.Close()

	rep, err := reporter.New("")
	require.NoError(t, err)

	_, err = Connect(context.Background(), &config.VendorConfig{
		ServiceURL:    url,
		PartnerID:     101,
		AppTokenID:    "tok_1",
		PartnerSecret: "s",
	}, rep)
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}
