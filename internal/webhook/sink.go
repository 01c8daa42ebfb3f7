package webhook

import (
	"context"
	"errors"
)

// Sink delivers state-change messages. Delivery is best effort.
type Sink interface {
	Send(ctx context.Context, msg Message) error
}

type NopSink struct{}

func (NopSink) Send(context.Context, Message) error { return nil }

type multiSink []Sink

// Multi fans a message out to every sink; one failure does not stop the others
func Multi(sinks ...Sink) Sink {
	var active multiSink
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		return NopSink{}
	}
	if len(active) == 1 {
		return active[0]
	}
	return active
}

func (m multiSink) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
