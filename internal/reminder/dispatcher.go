// Package reminder builds reminder texts and delivers them to recipients.
package reminder

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chris/nudge/internal/clock"
	"github.com/chris/nudge/internal/db"
)

// Sender delivers one text to one recipient. Implemented by telegram.Bot.
type Sender interface {
	Send(ctx context.Context, recipient int64, text string) error
}

// Recorder appends delivery attempts to a log.
type Recorder interface {
	RecordDelivery(ctx context.Context, d db.Delivery) error
}

// Mirror receives a copy of every successful delivery.
type Mirror interface {
	Post(ctx context.Context, text string) error
}

// ErrSkip from a build func means there is nothing to send this time.
var ErrSkip = errors.New("reminder skipped")

// BuildFunc produces the text of one reminder.
type BuildFunc func(ctx context.Context) (string, error)

// Dispatcher sends a built text exactly once and logs the outcome. There
// are no retries.
type Dispatcher struct {
	sender   Sender
	recorder Recorder
	mirror   Mirror
	clock    clock.Clock
	log      *zap.Logger
}

func NewDispatcher(sender Sender, clk clock.Clock, log *zap.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, clock: clk, log: log}
}

func (d *Dispatcher) WithRecorder(r Recorder) *Dispatcher {
	d.recorder = r
	return d
}

func (d *Dispatcher) WithMirror(m Mirror) *Dispatcher {
	d.mirror = m
	return d
}

// Fire builds and sends one reminder. A skipped build returns nil; build and
// send failures are logged and returned.
func (d *Dispatcher) Fire(ctx context.Context, jobID string, recipient int64, build BuildFunc) error {
	log := d.log.With(zap.String("job", jobID), zap.Int64("recipient", recipient))

	text, err := build(ctx)
	if errors.Is(err, ErrSkip) {
		log.Info("reminder skipped")
		return nil
	}
	if err != nil {
		log.Error("building reminder", zap.Error(err))
		return fmt.Errorf("building %s: %w", jobID, err)
	}

	sendErr := d.sender.Send(ctx, recipient, text)
	at := d.clock.Now()
	d.record(ctx, log, db.Delivery{JobID: jobID, Recipient: recipient, OK: sendErr == nil, Error: errString(sendErr), SentAt: at})
	if sendErr != nil {
		log.Error("reminder send failed", zap.Error(sendErr))
		return fmt.Errorf("sending %s: %w", jobID, sendErr)
	}
	log.Info("reminder sent", zap.Time("at", at))

	if d.mirror != nil {
		if err := d.mirror.Post(ctx, text); err != nil {
			log.Warn("mirroring reminder", zap.Error(err))
		}
	}
	return nil
}

// Job adapts Fire into a scheduler action.
func (d *Dispatcher) Job(jobID string, recipient int64, build BuildFunc) func(context.Context) {
	return func(ctx context.Context) {
		_ = d.Fire(ctx, jobID, recipient, build)
	}
}

func (d *Dispatcher) record(ctx context.Context, log *zap.Logger, del db.Delivery) {
	if d.recorder == nil {
		return
	}
	if err := d.recorder.RecordDelivery(ctx, del); err != nil {
		log.Warn("recording delivery", zap.Error(err))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
