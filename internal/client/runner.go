// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/nexus-tools/internal/catalog"
	"github.com/pdiddy/nexus-tools/pkg/types"
)

// ErrBusy is returned when a tool already has a request in flight.
var ErrBusy = errors.New("tool is busy")

// Notifier shows the toast that ends each submission.
type Notifier interface {
	Success(message string) types.Toast
	Error(message string) types.Toast
}

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, rec types.RunRecord) (int64, error)
}

// Outcome describes a finished submission.
type Outcome struct {
	Record types.RunRecord
	Toast  types.Toast
}

// Runner submits tools on behalf of an interactive shell. It allows one
// outstanding request per tool, saves each result, and ends every
// submission with exactly one toast.
type Runner struct {
	client   *Client
	notes    Notifier
	recorder Recorder
	log      *zap.Logger
	now      func() time.Time

	mu   sync.Mutex
	busy map[catalog.ID]bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRecorder stores every finished run.
func WithRecorder(rec Recorder) RunnerOption {
	return func(r *Runner) { r.recorder = rec }
}

// WithLogger sets the logger used for submission events.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

// NewRunner creates a Runner.
func NewRunner(c *Client, notes Notifier, opts ...RunnerOption) *Runner {
	r := &Runner{
		client: c,
		notes:  notes,
		log:    zap.NewNop(),
		now:    time.Now,
		busy:   make(map[catalog.ID]bool),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Busy reports whether id has a request in flight.
func (r *Runner) Busy(id catalog.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy[id]
}

func (r *Runner) acquire(id catalog.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy[id] {
		return false
	}
	r.busy[id] = true
	return true
}

func (r *Runner) release(id catalog.ID) {
	r.mu.Lock()
	delete(r.busy, id)
	r.mu.Unlock()
}

// Run submits sub for tool and saves the result into the client's output
// directory. It returns ErrBusy without sending anything when the tool is
// already running (recorded as a busy run), and an error wrapping
// catalog.ErrNotReady when the form is incomplete; neither case shows a
// toast. Otherwise the submission ends
// in one success or one error toast and the returned error, if any, is a
// *ToolError.
func (r *Runner) Run(ctx context.Context, tool catalog.Tool, sub Submission) (Outcome, error) {
	if err := tool.Ready(sub); err != nil {
		return Outcome{}, err
	}
	if !r.acquire(tool.ID) {
		r.log.Debug("submit ignored", zap.String("tool", string(tool.ID)), zap.Error(ErrBusy))
		rec := types.RunRecord{
			Tool:      string(tool.ID),
			Endpoint:  tool.Endpoint,
			Status:    types.RunBusy,
			Inputs:    sub.Files,
			Error:     ErrBusy.Error(),
			StartedAt: r.now(),
		}
		if r.recorder != nil {
			if _, err := r.recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
				r.log.Warn("recording run", zap.String("tool", rec.Tool), zap.Error(err))
			}
		}
		return Outcome{Record: rec}, ErrBusy
	}
	defer r.release(tool.ID)

	rec := types.RunRecord{
		Tool:      string(tool.ID),
		Endpoint:  tool.Endpoint,
		Inputs:    sub.Files,
		StartedAt: r.now(),
	}
	r.log.Info("submitting",
		zap.String("tool", rec.Tool),
		zap.String("url", r.client.BaseURL()+tool.Endpoint),
		zap.Int("files", len(sub.Files)),
	)

	path, size, err := r.submitAndSave(ctx, tool, sub)
	rec.Duration = r.now().Sub(rec.StartedAt)

	var out Outcome
	if err != nil {
		rec.Status = types.RunFailed
		rec.Error = errorDetail(err)
		out.Toast = r.notes.Error(tool.ErrorMessage)
		r.log.Warn("submit failed", zap.String("tool", rec.Tool), zap.Duration("duration", rec.Duration), zap.Error(err))
	} else {
		rec.Status = types.RunOK
		rec.OutputPath = path
		rec.Bytes = size
		out.Toast = r.notes.Success(tool.SuccessMessage)
		r.log.Info("submit done",
			zap.String("tool", rec.Tool),
			zap.String("output", path),
			zap.Int64("bytes", size),
			zap.Duration("duration", rec.Duration),
		)
	}

	if r.recorder != nil {
		id, rerr := r.recorder.Record(context.WithoutCancel(ctx), rec)
		if rerr != nil {
			r.log.Warn("recording run", zap.String("tool", rec.Tool), zap.Error(rerr))
		}
		rec.ID = id
	}
	out.Record = rec
	return out, err
}

func (r *Runner) submitAndSave(ctx context.Context, tool catalog.Tool, sub Submission) (string, int64, error) {
	res, err := r.client.Submit(ctx, tool, sub)
	if err != nil {
		var te *ToolError
		if errors.As(err, &te) {
			return "", 0, err
		}
		return "", 0, &ToolError{Tool: tool.ID, Message: tool.ErrorMessage, Cause: err}
	}
	path, err := Save(res, r.client.OutputDir())
	if err != nil {
		return "", 0, &ToolError{Tool: tool.ID, Message: tool.ErrorMessage, Cause: fmt.Errorf("saving result: %w", err)}
	}
	return path, int64(len(res.Body)), nil
}

func errorDetail(err error) string {
	var te *ToolError
	if errors.As(err, &te) && te.Cause != nil {
		return te.Cause.Error()
	}
	return err.Error()
}
