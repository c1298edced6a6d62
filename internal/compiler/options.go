package compiler

import (
	"context"
	"io"
	"time"
)

// Recorder observes compilations and invocations. The metrics package
// provides a Prometheus implementation.
type Recorder interface {
	ObserveCompile(d time.Duration, err error)
	ObserveInvoke(entry string, d time.Duration, err error)
	InstanceCreated()
}

// Publisher receives every line a program prints, e.g. to stream it to an
// editor.
type Publisher interface {
	Publish(ctx context.Context, entry, line string) error
}

type options struct {
	output    io.Writer
	publisher Publisher
	recorder  Recorder
}

// Option configures compilation.
type Option func(*options)

// WithOutput sets where printed lines are written. Instances write nowhere
// by default.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithPublisher forwards printed lines to p as well.
func WithPublisher(p Publisher) Option {
	return func(o *options) {
		o.publisher = p
	}
}

// WithRecorder reports compile and invoke timings to r.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

type nopRecorder struct{}

func (nopRecorder) ObserveCompile(time.Duration, error)         {}
func (nopRecorder) ObserveInvoke(string, time.Duration, error) {}
func (nopRecorder) InstanceCreated()                            {}

func newOptions(opts []Option) options {
	o := options{
		output:   io.Discard,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
