package realtime

import (
	"context"
	stderrors "errors"
	"fmt"
)

// Sink is a named Publisher so failures can be attributed.
type Sink struct {
	Name      string
	Publisher Publisher
}

// Fanout delivers every event to all sinks. One sink failing does not
// stop the others.
type Fanout struct {
	sinks   []Sink
	onError func(sink string, err error)
}

func NewFanout(onError func(sink string, err error), sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks, onError: onError}
}

func (f *Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Publisher.Publish(ctx, event); err != nil {
			if f.onError != nil {
				f.onError(s.Name, err)
			}
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}
	return stderrors.Join(errs...)
}
