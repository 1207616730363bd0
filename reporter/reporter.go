package reporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nanzhong/neotest"
	"github.com/nanzhong/neotest/output"
)

type options struct {
	logger *slog.Logger
	name   string
	now    func() time.Time
}

// Option is used to configure a Reporter on creation.
type Option func(*options)

// WithLogger allows configuring the logger, slog.Default() otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithName sets the name recorded on produced reports.
func WithName(name string) Option {
	return func(opts *options) {
		opts.name = name
	}
}

// Reporter consumes an event stream and turns it into a Report.
type Reporter struct {
	logger *slog.Logger
	name   string
	now    func() time.Time
}

// New constructs a Reporter.
func New(opts ...Option) *Reporter {
	defOpts := &options{
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(defOpts)
	}

	return &Reporter{
		logger: defOpts.logger,
		name:   defOpts.name,
		now:    defOpts.now,
	}
}

// Run consumes src until it is exhausted, strictly one event at a time, and
// returns the resulting report. Any fault, including a source error or ctx
// being done before exhaustion, aborts the run without a report.
func (r *Reporter) Run(ctx context.Context, src EventSource) (*neotest.Report, error) {
	tree := NewTree()

	var processed int
	for {
		event, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading event %d: %w", processed+1, err)
		}

		if err := r.handle(tree, event); err != nil {
			return nil, err
		}
		processed++
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if open := tree.Open(); open > 0 {
		r.logger.Warn("event stream ended with unfinished nodes", "open", open)
	}

	report := &neotest.Report{
		ID:        uuid.New(),
		Name:      r.name,
		CreatedAt: r.now().UTC(),
		Results:   Flatten(tree.Roots()),
		Tree:      tree.Roots(),
	}
	r.logger.Debug("processed event stream", "events", processed, "results", report.Results.Len())
	return report, nil
}

// Report runs src to exhaustion and serializes the flattened results with s.
func (r *Reporter) Report(ctx context.Context, src EventSource, s output.Serializer) (*neotest.Report, error) {
	report, err := r.Run(ctx, src)
	if err != nil {
		return nil, err
	}

	if err := s.Serialize(report.Results); err != nil {
		return nil, fmt.Errorf("serializing results: %w", err)
	}
	r.logger.Info("done", "results", report.Results.Len())
	return report, nil
}

func (r *Reporter) handle(tree *Tree, event *neotest.Event) error {
	c := Classify(event)

	var err error
	switch c.Kind {
	case KindStart:
		_, err = tree.Add(c)
	case KindResult:
		var o *Outcome
		o, err = NewOutcome(c)
		if err == nil {
			_, err = tree.Merge(o)
		}
	default:
		r.logger.Debug("ignoring event", "type", event.Type, "name", event.Data.Name)
	}

	if err != nil {
		return &EventError{
			Type:  c.Type,
			Depth: c.Depth,
			Name:  c.Name,
			Err:   err,
		}
	}
	return nil
}
