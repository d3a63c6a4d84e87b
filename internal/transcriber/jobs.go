package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Jobs is the façade the reconciler works against.
type Jobs interface {
	// CreateJob always attempts creation; idempotency is the caller's
	// responsibility via FindJobByReference. A non-2xx response yields an
	// empty job id and a nil error so the caller can record a task-level
	// failure instead of aborting the poll cycle.
	CreateJob(ctx context.Context, req CreateJobRequest) (string, error)
	// FindJobByReference returns nil, nil when no job exists for the
	// reference. That is a normal outcome, not an error.
	FindJobByReference(ctx context.Context, reference string) (*Job, error)
	// FetchResult retrieves the result document. Fallback path only; the
	// primary delivery is inline in the job payload.
	FetchResult(ctx context.Context, reference, format string) ([]byte, error)
}

var _ Jobs = (*Client)(nil)

type createJobBody struct {
	ID           string `json:"id"`
	BillingID    string `json:"billing_id"`
	Model        string `json:"model"`
	OutputFormat string `json:"output_format"`
	UserID       string `json:"user_id"`
	FileURL      string `json:"file_url"`
	Language     string `json:"language"`
}

func (c *Client) CreateJob(ctx context.Context, req CreateJobRequest) (string, error) {
	body := createJobBody{
		ID:           req.Reference,
		BillingID:    req.Reference,
		Model:        req.Model,
		OutputFormat: "srt",
		UserID:       submitUserID,
		FileURL:      req.FileURL,
		Language:     req.Language,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encoding job request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcriber/external", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building job request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("creating job: %w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		content, _ := io.ReadAll(resp.Body)
		zap.S().Warnf("error adding new transcriber job %s: (%d) %s", req.Reference, resp.StatusCode, content)
		return "", nil
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding job response: %w", err)
	}
	return out.ID, nil
}

func (c *Client) FindJobByReference(ctx context.Context, reference string) (*Job, error) {
	url := fmt.Sprintf("%s/transcriber/external/%s", c.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building job lookup: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("looking up job %s: %w: %v", reference, ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("looking up job %s: %w: status %s", reference, ErrRemoteUnavailable, resp.Status)
	}

	var out struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding job lookup: %w", err)
	}
	return c.pickJob(reference, out.Result)
}

// pickJob tolerates both a single job object and a list in the result field.
// More than one job per reference is a remote-side duplicate; the most
// recently created one wins and the anomaly is reported.
func (c *Client) pickJob(reference string, result json.RawMessage) (*Job, error) {
	if len(result) == 0 {
		return nil, nil
	}

	if result[0] == '[' {
		var jobs []Job
		if err := json.Unmarshal(result, &jobs); err != nil {
			return nil, fmt.Errorf("decoding job list: %w", err)
		}
		switch len(jobs) {
		case 0:
			return nil, nil
		case 1:
			return &jobs[0], nil
		}
		zap.S().Errorf("multiple jobs found for %s: %d", reference, len(jobs))
		c.rep.Message("multiple transcriber jobs found for reference %s", reference)
		newest := &jobs[0]
		for i := range jobs[1:] {
			if jobs[i+1].CreatedAt.After(newest.CreatedAt) {
				newest = &jobs[i+1]
			}
		}
		return newest, nil
	}

	var job Job
	if err := json.Unmarshal(result, &job); err != nil {
		return nil, fmt.Errorf("decoding job: %w", err)
	}
	if job.ID == "" {
		// The service answers with an empty object when the reference is not
		// yet indexed.
		return nil, nil
	}
	return &job, nil
}

func (c *Client) FetchResult(ctx context.Context, reference, format string) ([]byte, error) {
	url := fmt.Sprintf("%s/transcriber/external/%s/result/%s", c.baseURL, reference, format)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building result request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching result for %s: %w: %v", reference, ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching result for %s: %w: status %s", reference, ErrRemoteUnavailable, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
