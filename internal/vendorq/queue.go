package vendorq

import (
	"context"
	"fmt"
	"strconv"
)

// TaskQueue is the façade the reconciler works against.
//
// The Set* operations are best-effort from the caller's perspective: a failed
// status write is logged and retried implicitly on the next poll cycle, it
// must never take down the loop.
type TaskQueue interface {
	ListActiveTasks(ctx context.Context) ([]Task, error)
	GetCatalogSourceLanguage(ctx context.Context, catalogItemID int) (string, error)
	SetTaskSubmitted(ctx context.Context, taskID int) error
	SetTaskReady(ctx context.Context, taskID int, outputObjectID string) error
	SetTaskError(ctx context.Context, taskID int, message string) error
	// Entry returns a view bound to a task's scoped access credential, for
	// media and caption operations on the task's entry.
	Entry(accessKey string) EntryClient
}

// EntryClient operates on one media entry under a task-scoped session.
type EntryClient interface {
	ListReadyRenditions(ctx context.Context, entryID string) ([]Rendition, error)
	GetRenditionURL(ctx context.Context, renditionID string) (string, error)
	CreateCaptionAsset(ctx context.Context, entryID, language, label string) (string, error)
	SetCaptionContent(ctx context.Context, captionID, content string) error
	GetCaptionStatus(ctx context.Context, captionID string) (CaptionStatus, error)
}

var _ TaskQueue = (*Client)(nil)

type wireTask struct {
	ID            int    `json:"id"`
	EntryID       string `json:"entryId"`
	PartnerID     int    `json:"partnerId"`
	CatalogItemID int    `json:"catalogItemId"`
	Status        int    `json:"status"`
	AccessKey     string `json:"accessKey"`
}

func (w wireTask) toTask() Task {
	return Task{
		ID:            w.ID,
		EntryID:       w.EntryID,
		PartnerID:     w.PartnerID,
		CatalogItemID: w.CatalogItemID,
		Phase:         phaseFromStatus(w.Status),
		AccessKey:     w.AccessKey,
	}
}

// ListActiveTasks returns every task the queue holds in the requested or
// submitted phase. Terminal tasks are filtered out by the queue itself.
func (c *Client) ListActiveTasks(ctx context.Context) ([]Task, error) {
	statusIn := strconv.Itoa(statusPending) + "," + strconv.Itoa(statusProcessing)
	var out struct {
		Objects    []wireTask `json:"objects"`
		TotalCount int        `json:"totalCount"`
	}
	err := c.call(ctx, "reach_entryvendortask", "list", map[string]any{
		"filter": map[string]any{"statusIn": statusIn},
	}, &out)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(out.Objects))
	for _, w := range out.Objects {
		tasks = append(tasks, w.toTask())
	}
	return tasks, nil
}

func (c *Client) GetCatalogSourceLanguage(ctx context.Context, catalogItemID int) (string, error) {
	var out struct {
		SourceLanguage string `json:"sourceLanguage"`
	}
	err := c.call(ctx, "reach_vendorcatalogitem", "get", map[string]any{"id": catalogItemID}, &out)
	if err != nil {
		return "", err
	}
	if out.SourceLanguage == "" {
		return "", fmt.Errorf("catalog item %d has no source language", catalogItemID)
	}
	return out.SourceLanguage, nil
}

func (c *Client) SetTaskSubmitted(ctx context.Context, taskID int) error {
	return c.updateTask(ctx, taskID, map[string]any{"status": statusProcessing})
}

func (c *Client) SetTaskReady(ctx context.Context, taskID int, outputObjectID string) error {
	return c.updateTask(ctx, taskID, map[string]any{
		"status":         statusReady,
		"outputObjectId": outputObjectID,
	})
}

func (c *Client) SetTaskError(ctx context.Context, taskID int, message string) error {
	return c.updateTask(ctx, taskID, map[string]any{
		"status":         statusError,
		"errDescription": message,
	})
}

func (c *Client) updateTask(ctx context.Context, taskID int, patch map[string]any) error {
	return c.call(ctx, "reach_entryvendortask", "updateJob", map[string]any{
		"id":              taskID,
		"entryVendorTask": patch,
	}, nil)
}

func (c *Client) Entry(accessKey string) EntryClient {
	return c.Scoped(accessKey)
}
