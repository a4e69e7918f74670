// Package handler routes inbound lifecycle events to the matching store
// reconciliation and owns the bus consumer.
package handler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/mohans/taskwatch/internal/events"
	"github.com/mohans/taskwatch/internal/store"
	"github.com/mohans/taskwatch/internal/taskdef"
	"github.com/mohans/taskwatch/internal/view"
)

// Runs created by the queue's automatic retry carry this reason; their
// predecessor run never gets its own resolution event.
const reasonRetry = "retry"

// Router classifies each inbound event and applies exactly one store write
// for it. Per-message failures are logged and swallowed: the consumer keeps
// acknowledging so one bad message never stalls the pipeline.
type Router struct {
	fetcher taskdef.Fetcher
	store   *store.Store
	logger  *zap.Logger
}

// New creates a router. fetcher is normally the process-wide definition
// cache.
func New(fetcher taskdef.Fetcher, st *store.Store, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{fetcher: fetcher, store: st, logger: logger}
}

// Register binds every lifecycle task type on mux to this router.
func (r *Router) Register(mux *asynq.ServeMux) {
	for _, taskType := range events.Types() {
		mux.HandleFunc(taskType, r.ProcessTask)
	}
}

// ProcessTask is the bus-facing entry point. It never returns an error:
// application-level failures must not trigger bus redelivery, so they are
// logged with task identity and the message is acknowledged.
func (r *Router) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if err := r.Handle(ctx, t.Type(), t.Payload()); err != nil {
		r.logger.Error("event processing failed",
			zap.String("taskType", t.Type()),
			zap.Error(err))
	}
	return nil
}

// Handle processes one raw event: classify the kind, fetch the task
// definition, build the run view, and dispatch to the reconciliation the
// kind is bound to.
func (r *Router) Handle(ctx context.Context, taskType string, raw []byte) error {
	kind, err := events.KindFromTaskType(taskType)
	if err != nil {
		return err
	}
	msg, err := events.Decode(raw)
	if err != nil {
		return err
	}

	taskID := msg.Payload.Status.TaskID
	r.logger.Debug("event received",
		zap.String("taskId", taskID),
		zap.Int("runId", msg.Payload.RunID),
		zap.String("kind", string(kind)))

	def, err := r.fetcher.FetchTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("task %s: %w", taskID, err)
	}
	v, err := view.New(msg, def)
	if err != nil {
		return err
	}

	switch kind {
	case events.KindPending:
		return r.reconcilePending(ctx, v)
	case events.KindRunning:
		return r.reconcileRunning(ctx, v)
	case events.KindCompleted, events.KindFailed:
		return r.reconcileCompleted(ctx, v)
	case events.KindException:
		return r.reconcileException(ctx, v)
	}
	return fmt.Errorf("%w: %q", events.ErrUnknownKind, kind)
}

// reconcilePending inserts the new run if absent. When the run exists
// because of an automatic retry, the previous run is first closed out from
// its embedded run data; no exception event is ever published for it.
func (r *Router) reconcilePending(ctx context.Context, v *view.TaskRun) error {
	if v.RunID > 0 && v.CurrentRun.ReasonCreated == reasonRetry {
		if err := r.closeRetriedRun(ctx, v); err != nil {
			return err
		}
	}
	return r.store.Upsert(ctx, store.TransitionPending, baseRow(v, v.CurrentRun, v.RunID))
}

func (r *Router) closeRetriedRun(ctx context.Context, v *view.TaskRun) error {
	prevID := v.RunID - 1
	prev := v.RunAt(prevID)
	if prev == nil {
		return fmt.Errorf("task %s: retry run %d has no predecessor in status", v.TaskID, v.RunID)
	}
	row := baseRow(v, prev, prevID)
	row.WorkerID = optStr(prev.WorkerID)
	row.WorkerGroup = optStr(prev.WorkerGroup)
	row.Started = prev.Started
	row.Resolved = prev.Resolved
	row.ExceptionReason = optStr(prev.ReasonResolved)
	return r.store.Upsert(ctx, store.TransitionRetryClosure, row)
}

func (r *Router) reconcileRunning(ctx context.Context, v *view.TaskRun) error {
	row := baseRow(v, v.CurrentRun, v.RunID)
	row.WorkerID = optStr(v.CurrentRun.WorkerID)
	row.WorkerGroup = optStr(v.CurrentRun.WorkerGroup)
	row.Started = v.CurrentRun.Started
	return r.store.Upsert(ctx, store.TransitionRunning, row)
}

// reconcileCompleted covers both the completed and failed kinds; they share
// a persistence shape and differ only in the run's own state value.
func (r *Router) reconcileCompleted(ctx context.Context, v *view.TaskRun) error {
	row := baseRow(v, v.CurrentRun, v.RunID)
	row.WorkerID = optStr(v.CurrentRun.WorkerID)
	row.WorkerGroup = optStr(v.CurrentRun.WorkerGroup)
	row.Started = v.CurrentRun.Started
	row.Resolved = v.CurrentRun.Resolved
	return r.store.Upsert(ctx, store.TransitionCompleted, row)
}

func (r *Router) reconcileException(ctx context.Context, v *view.TaskRun) error {
	row := baseRow(v, v.CurrentRun, v.RunID)
	row.WorkerID = optStr(v.CurrentRun.WorkerID)
	row.WorkerGroup = optStr(v.CurrentRun.WorkerGroup)
	row.Started = v.CurrentRun.Started
	row.Resolved = v.CurrentRun.Resolved
	row.ExceptionReason = optStr(v.CurrentRun.ReasonResolved)
	return r.store.Upsert(ctx, store.TransitionException, row)
}

// baseRow builds the columns every transition carries: identity, state,
// task-level facts from the definition, and the denormalized provenance and
// classification fields.
func baseRow(v *view.TaskRun, run *events.RunInfo, runID int) store.Row {
	row := store.Row{
		TaskID:    v.TaskID,
		RunID:     runID,
		State:     run.State,
		Scheduled: run.Scheduled,
		Platform:  optStr(v.Platform),
		JobKind:   optStr(v.JobKind),
	}
	if def := v.Definition; def != nil {
		if !def.Created.IsZero() {
			created := def.Created.UTC()
			row.Created = &created
		}
		row.Scheduler = optStr(def.SchedulerID)
		row.Provisioner = optStr(def.ProvisionerID)
		row.WorkerType = optStr(def.WorkerType)
	}
	if v.Source.Known {
		row.Source = optStr(v.Source.Origin)
		row.Owner = optStr(v.Source.Owner)
		row.Project = optStr(v.Source.Project)
		row.Revision = optStr(v.Source.Revision)
		row.PushID = optStr(v.Source.PushID)
	}
	return row
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
