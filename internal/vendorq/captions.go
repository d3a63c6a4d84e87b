package vendorq

import (
	"context"
)

// Rendition wire code for "ready to serve".
const renditionStatusReady = 2

const (
	captionTag      = "ndn-whisper"
	captionAccuracy = 90
)

func (c *Client) ListReadyRenditions(ctx context.Context, entryID string) ([]Rendition, error) {
	var out struct {
		Objects []struct {
			ID      string `json:"id"`
			FileExt string `json:"fileExt"`
			Size    int64  `json:"size"`
		} `json:"objects"`
		TotalCount int `json:"totalCount"`
	}
	err := c.call(ctx, "flavorasset", "list", map[string]any{
		"filter": map[string]any{
			"entryIdEqual": entryID,
			"statusEqual":  renditionStatusReady,
		},
	}, &out)
	if err != nil {
		return nil, err
	}

	renditions := make([]Rendition, 0, len(out.Objects))
	for _, o := range out.Objects {
		renditions = append(renditions, Rendition{ID: o.ID, FileExt: o.FileExt, Size: o.Size})
	}
	return renditions, nil
}

func (c *Client) GetRenditionURL(ctx context.Context, renditionID string) (string, error) {
	var url string
	if err := c.call(ctx, "flavorasset", "getUrl", map[string]any{"id": renditionID}, &url); err != nil {
		return "", err
	}
	return url, nil
}

// CreateCaptionAsset registers a new caption resource on the entry. The
// content is pushed separately with SetCaptionContent.
func (c *Client) CreateCaptionAsset(ctx context.Context, entryID, language, label string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	err := c.call(ctx, "caption_captionasset", "add", map[string]any{
		"entryId": entryID,
		"captionAsset": map[string]any{
			"language": language,
			"label":    label,
			"tags":     captionTag,
			"accuracy": captionAccuracy,
		},
	}, &out)
	if err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) SetCaptionContent(ctx context.Context, captionID, content string) error {
	return c.call(ctx, "caption_captionasset", "setContent", map[string]any{
		"id": captionID,
		"contentResource": map[string]any{
			"objectType": "KalturaStringResource",
			"content":    content,
		},
	}, nil)
}

func (c *Client) GetCaptionStatus(ctx context.Context, captionID string) (CaptionStatus, error) {
	var out struct {
		Status int `json:"status"`
	}
	if err := c.call(ctx, "caption_captionasset", "get", map[string]any{"id": captionID}, &out); err != nil {
		return CaptionStatusPending, err
	}
	return captionStatusFromCode(out.Status), nil
}
