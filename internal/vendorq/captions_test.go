package vendorq

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListReadyRenditions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api_v3/service/flavorasset/action/list", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		filter := body["filter"].(map[string]any)
		assert.Equal(t, "0_abc", filter["entryIdEqual"])
		assert.Equal(t, float64(renditionStatusReady), filter["statusEqual"])

		writeJSON(t, w, map[string]any{
			"objects": []map[string]any{
				{"id": "1_a", "fileExt": "mp4", "size": 500},
				{"id": "1_b", "fileExt": "mov", "size": 100},
			},
			"totalCount": 2,
		})
	})

	client := newTestClient(t, mux)
	renditions, err := client.ListReadyRenditions(context.Background(), "0_abc")
	require.NoError(t, err)
	require.Len(t, renditions, 2)
	assert.Equal(t, Rendition{ID: "1_a", FileExt: "mp4", Size: 500}, renditions[0])
}

func TestGetRenditionURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api_v3/service/flavorasset/action/getUrl", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, "https://vod-cache.example.org/media/1_a.mp4")
	})

	client := newTestClient(t, mux)
	url, err := client.GetRenditionURL(context.Background(), "1_a")
	require.NoError(t, err)
	assert.Equal(t, "https://vod-cache.example.org/media/1_a.mp4", url)
}

func TestCreateCaptionAsset(t *testing.T) {
	var asset map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/api_v3/service/caption_captionasset/action/add", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "0_abc", body["entryId"])
		asset = body["captionAsset"].(map[string]any)
		writeJSON(t, w, map[string]any{"id": "0_cap"})
	})

	client := newTestClient(t, mux)
	id, err := client.CreateCaptionAsset(context.Background(), "0_abc", "sv", "sv (Whisper)")
	require.NoError(t, err)
	assert.Equal(t, "0_cap", id)
	assert.Equal(t, "sv", asset["language"])
	assert.Equal(t, "sv (Whisper)", asset["label"])
	assert.Equal(t, captionTag, asset["tags"])
	assert.Equal(t, float64(captionAccuracy), asset["accuracy"])
}

func TestSetCaptionContent(t *testing.T) {
	var resource map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/api_v3/service/caption_captionasset/action/setContent", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "0_cap", body["id"])
		resource = body["contentResource"].(map[string]any)
		writeJSON(t, w, map[string]any{"id": "0_cap"})
	})

	client := newTestClient(t, mux)
	require.NoError(t, client.SetCaptionContent(context.Background(), "0_cap", "1\n00:00:00,000 --> 00:00:01,000\nhej\n"))
	assert.Equal(t, "KalturaStringResource", resource["objectType"])
	assert.Contains(t, resource["content"], "hej")
}

func TestGetCaptionStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected CaptionStatus
	}{
		{"ready", 2, CaptionStatusReady},
		{"error", -1, CaptionStatusError},
		{"queued", 0, CaptionStatusPending},
		{"importing", 1, CaptionStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api_v3/service/caption_captionasset/action/get", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, map[string]any{"id": "0_cap", "status": tt.code})
			})

			client := newTestClient(t, mux)
			status, err := client.GetCaptionStatus(context.Background(), "0_cap")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestScopedClientUsesTaskSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api_v3/service/flavorasset/action/getUrl", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "ks-task-scoped", body["ks"])
		writeJSON(t, w, "https://example.org/x.mp4")
	})

	client := newTestClient(t, mux)
	scoped := client.Entry("ks-task-scoped")
	_, err := scoped.GetRenditionURL(context.Background(), "1_a")
	require.NoError(t, err)
}
