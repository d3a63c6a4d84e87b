package reconcile

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nordunet/transcriber-adapter/internal/config"
	"github.com/nordunet/transcriber-adapter/internal/policy"
	"github.com/nordunet/transcriber-adapter/internal/transcriber"
	"github.com/nordunet/transcriber-adapter/internal/vendorq"
	"github.com/nordunet/transcriber-adapter/pkg/metrics"
	"github.com/nordunet/transcriber-adapter/pkg/reporter"
)

// Task-level error messages written back to the vendor queue.
const (
	msgNoRendition  = "No rendition found"
	msgJobNotAdded  = "Error adding new task"
	msgJobFailed    = "Task failed"
	msgEntryDeleted = "Entry deleted"
)

const captionConvergenceAttempts = 10

// The CDN host in rendition URLs is not reachable from the transcription
// service's network; the origin streaming host is.
var sourceHostPattern = regexp.MustCompile(`^https?://vod-cache`)

func rewriteSourceURL(url string) string {
	return sourceHostPattern.ReplaceAllString(url, "https://streaming")
}

// Reconciler applies the task state machine: it compares a vendor task's
// phase with the matching transcriber job and performs whatever transition is
// due. All durable state lives in the two remote systems.
type Reconciler struct {
	queue  vendorq.TaskQueue
	jobs   transcriber.Jobs
	models *config.ModelConfig
	rep    *reporter.Reporter

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

func NewReconciler(queue vendorq.TaskQueue, jobs transcriber.Jobs, models *config.ModelConfig, rep *reporter.Reporter) *Reconciler {
	return &Reconciler{
		queue:  queue,
		jobs:   jobs,
		models: models,
		rep:    rep,
		sleep:  time.Sleep,
	}
}

// Reconcile advances one task. A returned error means no state was changed
// and the caller decides whether to skip the task or abort the cycle.
func (r *Reconciler) Reconcile(ctx context.Context, task vendorq.Task) error {
	switch task.Phase {
	case vendorq.PhaseRequested:
		return r.handleRequested(ctx, task)
	case vendorq.PhaseSubmitted:
		return r.handleSubmitted(ctx, task)
	default:
		return fmt.Errorf("task %d is in phase %s, nothing to reconcile", task.ID, task.Phase)
	}
}

// handleRequested submits a task to the transcription service, exactly once.
// A job may already exist from a previous run or an overlapping instance, so
// lookup by reference always precedes creation.
func (r *Reconciler) handleRequested(ctx context.Context, task vendorq.Task) error {
	log := zap.S().With("task", task.ID)
	log.Debugf("handling requested task")

	language, err := r.queue.GetCatalogSourceLanguage(ctx, task.CatalogItemID)
	if err != nil {
		return err
	}
	log.Debugf("source language: %s", language)

	entry := r.queue.Entry(task.AccessKey)
	renditions, err := entry.ListReadyRenditions(ctx, task.EntryID)
	if err != nil {
		return err
	}

	rendition, ok := policy.SelectRendition(renditions)
	if !ok {
		r.failTask(ctx, task.ID, msgNoRendition, "no_rendition")
		return nil
	}
	log.Debugf("smallest rendition: %s (%d bytes)", rendition.ID, rendition.Size)

	url, err := entry.GetRenditionURL(ctx, rendition.ID)
	if err != nil {
		return err
	}
	url = rewriteSourceURL(url)

	reference := strconv.Itoa(task.ID)
	job, err := r.jobs.FindJobByReference(ctx, reference)
	if err != nil {
		return err
	}

	if job != nil {
		log.Infof("job already exists for task %d: %s (%s)", task.ID, job.ID, job.Status)
	} else {
		model := policy.ResolveModel(r.models, task.PartnerID, language)
		jobID, err := r.jobs.CreateJob(ctx, transcriber.CreateJobRequest{
			Reference: reference,
			Model:     model,
			FileURL:   url,
			Language:  language,
		})
		if err != nil {
			return err
		}
		if jobID == "" {
			r.failTask(ctx, task.ID, msgJobNotAdded, "job_not_added")
			return nil
		}
		log.Infof("new transcriber job for task %d: %s, model %s", task.ID, jobID, model)
		log.Infof("source url: %s", url)
	}

	if err := r.queue.SetTaskSubmitted(ctx, task.ID); err != nil {
		// The idempotency check above makes the retry on the next cycle safe.
		log.Errorf("failed to mark task %d submitted: %v", task.ID, err)
		return nil
	}
	metrics.TasksSubmittedTotal.Inc()
	log.Infof("successfully submitted task %d for partner %d", task.ID, task.PartnerID)
	return nil
}

// handleSubmitted checks the transcriber job and, once it completes, attaches
// the resulting captions to the entry and marks the task ready.
func (r *Reconciler) handleSubmitted(ctx context.Context, task vendorq.Task) error {
	log := zap.S().With("task", task.ID)
	log.Debugf("handling submitted task")

	reference := strconv.Itoa(task.ID)
	job, err := r.jobs.FindJobByReference(ctx, reference)
	if err != nil {
		return err
	}
	if job == nil {
		// The service may not have indexed the job yet.
		log.Debugf("no job visible for task %d, waiting", task.ID)
		return nil
	}
	log.Debugf("found job for task %d: %s - %s", task.ID, job.ID, job.Status)

	if job.Status.Failed() {
		log.Errorf("job failed: task %d, job %s", task.ID, job.ID)
		r.failTask(ctx, task.ID, msgJobFailed, "job_failed")
		return nil
	}
	if !job.Status.Done() {
		log.Debugf("job not ready")
		return nil
	}

	document := job.ResultSRT
	if document == "" {
		raw, err := r.jobs.FetchResult(ctx, reference, "srt")
		if err != nil {
			return err
		}
		document = string(raw)
	}

	language, err := r.queue.GetCatalogSourceLanguage(ctx, task.CatalogItemID)
	if err != nil {
		return err
	}

	captionID, err := r.publishCaptions(ctx, task, language, document)
	if errors.Is(err, vendorq.ErrEntryNotFound) {
		log.Infof("entry deleted: task %d, job %s", task.ID, job.ID)
		r.failTask(ctx, task.ID, msgEntryDeleted, "entry_deleted")
		return nil
	}
	if err != nil {
		// A half-applied caption is worse than aborting the cycle and
		// retrying fresh.
		return err
	}

	if err := r.queue.SetTaskReady(ctx, task.ID, captionID); err != nil {
		log.Errorf("failed to mark task %d ready: %v", task.ID, err)
		return nil
	}
	metrics.TasksCompletedTotal.Inc()
	log.Infof("captions attached: task %d, caption %s", task.ID, captionID)
	return nil
}

// publishCaptions creates the caption asset, pushes the document and waits
// for the asset to leave its processing state. Convergence failure is
// degraded service, not an error: the task still completes.
func (r *Reconciler) publishCaptions(ctx context.Context, task vendorq.Task, language, document string) (string, error) {
	log := zap.S().With("task", task.ID)
	entry := r.queue.Entry(task.AccessKey)

	captionID, err := entry.CreateCaptionAsset(ctx, task.EntryID, language, language+" (Whisper)")
	if err != nil {
		return "", err
	}
	log.Debugf("new caption asset: %s", captionID)

	if err := entry.SetCaptionContent(ctx, captionID, document); err != nil {
		return "", err
	}

	status, err := entry.GetCaptionStatus(ctx, captionID)
	if err != nil {
		return "", err
	}
	for attempt := 0; status != vendorq.CaptionStatusReady && attempt < captionConvergenceAttempts; attempt++ {
		log.Debugf("captions not done yet")
		r.sleep(time.Duration(attempt) * time.Second)
		if status, err = entry.GetCaptionStatus(ctx, captionID); err != nil {
			return "", err
		}
	}
	if status != vendorq.CaptionStatusReady {
		log.Warnf("caption asset %s did not converge, status %d", captionID, status)
		r.rep.Message("caption asset %s for task %d did not converge", captionID, task.ID)
	}

	return captionID, nil
}

// failTask records a terminal task failure in the vendor queue. Best effort:
// escalating a failed error write would just loop forever.
func (r *Reconciler) failTask(ctx context.Context, taskID int, message, reason string) {
	zap.S().Errorf("setting error state: %d - %s", taskID, message)
	if err := r.queue.SetTaskError(ctx, taskID, message); err != nil {
		zap.S().Errorf("failed to set error state for task %d: %v", taskID, err)
		return
	}
	metrics.TasksFailedTotal.WithLabelValues(reason).Inc()
}
