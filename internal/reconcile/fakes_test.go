package reconcile

import (
	"context"

	"github.com/nordunet/transcriber-adapter/internal/transcriber"
	"github.com/nordunet/transcriber-adapter/internal/vendorq"
)

type fakeEntry struct {
	renditions    []vendorq.Rendition
	renditionsErr error

	url    string
	urlErr error

	captionID  string
	captionErr error
	created    []string // labels of created caption assets

	contentErr error
	content    map[string]string

	statuses    []vendorq.CaptionStatus // consumed per call, last repeats
	statusErr   error
	statusCalls int
}

func (e *fakeEntry) ListReadyRenditions(ctx context.Context, entryID string) ([]vendorq.Rendition, error) {
	return e.renditions, e.renditionsErr
}

func (e *fakeEntry) GetRenditionURL(ctx context.Context, renditionID string) (string, error) {
	return e.url, e.urlErr
}

func (e *fakeEntry) CreateCaptionAsset(ctx context.Context, entryID, language, label string) (string, error) {
	if e.captionErr != nil {
		return "", e.captionErr
	}
	e.created = append(e.created, label)
	return e.captionID, nil
}

func (e *fakeEntry) SetCaptionContent(ctx context.Context, captionID, content string) error {
	if e.contentErr != nil {
		return e.contentErr
	}
	if e.content == nil {
		e.content = map[string]string{}
	}
	e.content[captionID] = content
	return nil
}

func (e *fakeEntry) GetCaptionStatus(ctx context.Context, captionID string) (vendorq.CaptionStatus, error) {
	e.statusCalls++
	if e.statusErr != nil {
		return vendorq.CaptionStatusPending, e.statusErr
	}
	if len(e.statuses) == 0 {
		return vendorq.CaptionStatusReady, nil
	}
	status := e.statuses[0]
	if len(e.statuses) > 1 {
		e.statuses = e.statuses[1:]
	}
	return status, nil
}

type fakeQueue struct {
	tasks       []vendorq.Task
	listErr     error
	listErrOnce error // returned on the first listing only
	listCalls   int

	language  string
	langErr   error
	langCalls int

	submitted []int
	ready     map[int]string
	failed    map[int]string

	entry     *fakeEntry
	entryKeys []string
}

func (q *fakeQueue) ListActiveTasks(ctx context.Context) ([]vendorq.Task, error) {
	q.listCalls++
	if q.listErrOnce != nil {
		err := q.listErrOnce
		q.listErrOnce = nil
		return nil, err
	}
	return q.tasks, q.listErr
}

func (q *fakeQueue) GetCatalogSourceLanguage(ctx context.Context, catalogItemID int) (string, error) {
	q.langCalls++
	return q.language, q.langErr
}

func (q *fakeQueue) SetTaskSubmitted(ctx context.Context, taskID int) error {
	q.submitted = append(q.submitted, taskID)
	return nil
}

func (q *fakeQueue) SetTaskReady(ctx context.Context, taskID int, outputObjectID string) error {
	if q.ready == nil {
		q.ready = map[int]string{}
	}
	q.ready[taskID] = outputObjectID
	return nil
}

func (q *fakeQueue) SetTaskError(ctx context.Context, taskID int, message string) error {
	if q.failed == nil {
		q.failed = map[int]string{}
	}
	q.failed[taskID] = message
	return nil
}

func (q *fakeQueue) Entry(accessKey string) vendorq.EntryClient {
	q.entryKeys = append(q.entryKeys, accessKey)
	return q.entry
}

type fakeJobs struct {
	jobs    map[string]*transcriber.Job
	findErr error
	finds   int

	createID   string
	createErr  error
	creates    []transcriber.CreateJobRequest
	lastCreate transcriber.CreateJobRequest

	result    []byte
	resultErr error
}

func (j *fakeJobs) CreateJob(ctx context.Context, req transcriber.CreateJobRequest) (string, error) {
	if j.createErr != nil {
		return "", j.createErr
	}
	j.creates = append(j.creates, req)
	j.lastCreate = req
	return j.createID, nil
}

func (j *fakeJobs) FindJobByReference(ctx context.Context, reference string) (*transcriber.Job, error) {
	j.finds++
	if j.findErr != nil {
		return nil, j.findErr
	}
	return j.jobs[reference], nil
}

func (j *fakeJobs) FetchResult(ctx context.Context, reference, format string) ([]byte, error) {
	return j.result, j.resultErr
}
