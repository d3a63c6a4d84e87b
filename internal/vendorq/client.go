package vendorq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"
)

const clientTag = "transcriber_adapter"

// Client speaks the vendor's service/action RPC protocol. One Client carries
// one session; Scoped derives a sibling bound to a per-task session key.
type Client struct {
	serviceURL string
	session    string
	hc         *http.Client
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// Scoped returns a client that shares the transport but authenticates with the
// given session key. Used for media and caption calls that must run under a
// task's own access credential.
func (c *Client) Scoped(session string) *Client {
	return &Client{
		serviceURL: c.serviceURL,
		session:    session,
		hc:         c.hc,
	}
}

// apiError is the vendor's in-band error envelope: the HTTP status is 200 and
// the body carries the exception object instead of the result.
type apiError struct {
	ObjectType string `json:"objectType"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("vendor api error %s: %s", e.Code, e.Message)
}

// call performs one service/action request. params must not contain the
// session; it is injected here.
func (c *Client) call(ctx context.Context, service, action string, params map[string]any, out any) error {
	body := make(map[string]any, len(params)+3)
	for k, v := range params {
		body[k] = v
	}
	body["format"] = 1
	body["clientTag"] = clientTag
	if c.session != "" {
		body["ks"] = c.session
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s.%s request: %w", service, action, err)
	}

	url := fmt.Sprintf("%s/api_v3/service/%s/action/%s", c.serviceURL, service, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s.%s request: %w", service, action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s.%s: %w: %v", service, action, ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s.%s: %w: status %s", service, action, ErrRemoteUnavailable, resp.Status)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("decoding %s.%s response: %w", service, action, err)
	}

	if err := classifyAPIError(raw); err != nil {
		return fmt.Errorf("%s.%s: %w", service, action, err)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding %s.%s result: %w", service, action, err)
		}
	}
	return nil
}

func classifyAPIError(raw json.RawMessage) error {
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err != nil {
		return nil
	}
	if apiErr.ObjectType != "KalturaAPIException" {
		return nil
	}
	switch apiErr.Code {
	case codeEntryNotFound:
		return fmt.Errorf("%w: %s", ErrEntryNotFound, apiErr.Message)
	case codeInvalidKS, codeExpiredKS:
		return fmt.Errorf("%w: %s", ErrRemoteUnavailable, apiErr.Error())
	default:
		return &apiErr
	}
}
