// Package mykafkatest provides an in-memory publisher for tests.
package mykafkatest

import (
	"context"
	"sync"

	"github.com/Skotchmaster/kaii_store/internal/mykafka"
)

type Published struct {
	Key   string
	Event mykafka.Event
}

// Recorder keeps published events in memory. A non-nil Err is returned
// from every publish and nothing is recorded.
type Recorder struct {
	mu     sync.Mutex
	events []Published
	Err    error
}

var _ mykafka.Publisher = (*Recorder)(nil)

func (r *Recorder) PublishEvent(_ context.Context, key string, event mykafka.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, Published{Key: key, Event: event})
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types() []mykafka.EventType {
	events := r.Events()
	out := make([]mykafka.EventType, 0, len(events))
	for _, e := range events {
		out = append(out, e.Event.Type)
	}
	return out
}
