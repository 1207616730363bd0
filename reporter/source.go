package reporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nanzhong/neotest"
)

// EventSource yields events one at a time. Next returns io.EOF once the
// stream is exhausted.
type EventSource interface {
	Next(ctx context.Context) (*neotest.Event, error)
}

// Decoder reads a stream of JSON encoded events, one per line or simply
// concatenated.
type Decoder struct {
	dec *json.Decoder
}

var _ EventSource = (*Decoder)(nil)

// NewDecoder constructs a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

// Next decodes the next event. The context is only checked between events, a
// blocked read is not interrupted.
func (d *Decoder) Next(ctx context.Context) (*neotest.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var event neotest.Event
	err := d.dec.Decode(&event)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	return &event, nil
}

// ChanSource yields events received on a channel until it is closed.
type ChanSource struct {
	events <-chan *neotest.Event
}

var _ EventSource = (*ChanSource)(nil)

// NewChanSource constructs a ChanSource reading from events.
func NewChanSource(events <-chan *neotest.Event) *ChanSource {
	return &ChanSource{events: events}
}

// Next waits for the next event, the channel to close or ctx to be done.
func (s *ChanSource) Next(ctx context.Context) (*neotest.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case event, ok := <-s.events:
		if !ok {
			return nil, io.EOF
		}
		return event, nil
	}
}
