package transcriber

import "time"

type JobStatus string

// Status vocabulary is owned by the transcription service; the adapter only
// needs to distinguish "not done", "done with result" and "done with failure".
const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

func (s JobStatus) Done() bool {
	return s == JobStatusCompleted
}

func (s JobStatus) Failed() bool {
	return s == JobStatusError
}

// Job is a transcription job keyed by an external reference equal to the
// vendor task id.
type Job struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	// ResultSRT carries the subtitle document inline once the job completes.
	ResultSRT string `json:"result_srt"`
}

// CreateJobRequest describes a new transcription job. Reference doubles as
// the idempotency key and the billing reference.
type CreateJobRequest struct {
	Reference string
	Model     string
	FileURL   string
	Language  string
}
