package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"

	"github.com/nordunet/transcriber-adapter/internal/transcriber"
	"github.com/nordunet/transcriber-adapter/internal/vendorq"
	"github.com/nordunet/transcriber-adapter/pkg/metrics"
	"github.com/nordunet/transcriber-adapter/pkg/reporter"
)

// Loop runs the periodic reconciliation scan. Tasks are handled one at a
// time; correctness never depends on that, but partial failures within a
// cycle stay easy to reason about.
type Loop struct {
	queue    vendorq.TaskQueue
	rec      *Reconciler
	ctrl     *Controller
	rep      *reporter.Reporter
	interval time.Duration
}

func NewLoop(queue vendorq.TaskQueue, rec *Reconciler, ctrl *Controller, rep *reporter.Reporter, interval time.Duration) *Loop {
	return &Loop{
		queue:    queue,
		rec:      rec,
		ctrl:     ctrl,
		rep:      rep,
		interval: interval,
	}
}

// Run polls until a stop is requested. Drain and stop are observed at cycle
// boundaries only; a hung remote call simply delays the next check.
func (l *Loop) Run(ctx context.Context) error {
	ticker := jitterbug.New(l.interval, &jitterbug.Norm{Stdev: 500 * time.Millisecond})
	defer ticker.Stop()

	wasDraining := false
	for {
		draining := l.ctrl.Draining()
		if draining != wasDraining {
			if draining {
				zap.S().Info("draining active tasks")
			} else {
				zap.S().Info("resuming from drain state")
			}
			wasDraining = draining
		}

		submitted, ok := l.runCycle(ctx)

		if l.ctrl.Stopping() {
			zap.S().Info("stopping")
			return nil
		}

		if l.ctrl.Draining() && ok && submitted == 0 {
			zap.S().Info("done draining, no active tasks")
			l.park(ctx)
			if l.ctrl.Stopping() {
				zap.S().Info("stopping")
				return nil
			}
			wasDraining = l.ctrl.Draining()
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.ctrl.StopRequested():
			zap.S().Info("stopping")
			return nil
		case <-ticker.C:
		}
	}
}

// runCycle scans the queue once and returns how many tasks are still in the
// submitted phase, which drives the drain-done decision. ok is false when the
// listing failed or a task aborted the scan: such a cycle observed nothing
// about the remaining submitted tasks and must not complete a drain.
func (l *Loop) runCycle(ctx context.Context) (submitted int, ok bool) {
	log := zap.S().With("cycle", uuid.NewString())
	metrics.CyclesTotal.Inc()

	tasks, err := l.queue.ListActiveTasks(ctx)
	if err != nil {
		// No progress this cycle; the queue owns all state so nothing is lost.
		log.Warnf("listing active tasks: %v", err)
		metrics.RemoteErrorsTotal.WithLabelValues("vendor").Inc()
		return 0, false
	}

	for _, task := range tasks {
		log.Infof("task: %d - %s - %s", task.ID, task.Phase, task.EntryID)

		switch task.Phase {
		case vendorq.PhaseRequested:
			if l.ctrl.Draining() {
				log.Debugf("draining, skipping requested task %d", task.ID)
				continue
			}
			if aborted := l.reconcile(ctx, log, task); aborted {
				return submitted, false
			}
		case vendorq.PhaseSubmitted:
			submitted++
			if aborted := l.reconcile(ctx, log, task); aborted {
				return submitted, false
			}
		case vendorq.PhaseReady, vendorq.PhaseError:
			// Terminal phases are filtered out by the queue; seeing one here
			// means the filter changed under us.
			log.Warnf("terminal task %d in active listing, ignoring", task.ID)
		default:
			log.Warnf("unknown vendor task phase for task %d", task.ID)
			l.rep.Message("unknown vendor task phase for task %d", task.ID)
		}
	}

	return submitted, true
}

// reconcile runs one task and routes the failure: an unavailable remote skips
// just this task, anything else aborts the remaining cycle so the next tick
// starts from a clean slate.
func (l *Loop) reconcile(ctx context.Context, log *zap.SugaredLogger, task vendorq.Task) (abort bool) {
	err := l.rec.Reconcile(ctx, task)
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, vendorq.ErrRemoteUnavailable):
		log.Warnf("vendor queue unavailable for task %d, retrying next cycle: %v", task.ID, err)
		metrics.RemoteErrorsTotal.WithLabelValues("vendor").Inc()
		return false
	case errors.Is(err, transcriber.ErrRemoteUnavailable):
		log.Warnf("transcriber unavailable for task %d, retrying next cycle: %v", task.ID, err)
		metrics.RemoteErrorsTotal.WithLabelValues("transcriber").Inc()
		return false
	default:
		log.Errorf("reconciling task %d: %v", task.ID, err)
		l.rep.Error(err)
		return true
	}
}

// park waits out a completed drain: nothing to do until the drain is lifted
// or the process is asked to stop.
func (l *Loop) park(ctx context.Context) {
	for l.ctrl.Draining() && !l.ctrl.Stopping() {
		select {
		case <-ctx.Done():
			return
		case <-l.ctrl.StopRequested():
			return
		case <-l.ctrl.Wake():
		case <-time.After(l.interval):
		}
	}
}
