package event

import (
	"context"
	"sync"

	"github.com/viant/procsim/service/messaging/memory"
	"go.uber.org/zap"
)

// Service carries engine notifications to a single registered handler
// through an ordered in-memory queue.
type Service struct {
	queue       *memory.Queue[Event[any]]
	publisher   *Publisher[any]
	listener    *Listener[any]
	queueConfig memory.Config
	logger      *zap.Logger
	mux         sync.Mutex
}

func New(opts ...Option) *Service {
	ret := &Service{
		queueConfig: memory.DefaultConfig(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.queue = memory.NewQueue[Event[any]](ret.queueConfig)
	ret.publisher = NewPublisher[any](ret.queue)
	return ret
}

// Publish enqueues data described by eventContext.
func (s *Service) Publish(ctx context.Context, eventContext *Context, data any) error {
	return s.publisher.Publish(ctx, NewEvent[any](eventContext, data))
}

// SetListener replaces the active handler.
func (s *Service) SetListener(handler func(*Event[any])) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
		<-s.listener.Done()
	}
	s.listener = NewListener[any](s.publisher, handler, s.logger)
	s.listener.Start()
}

// Failed returns events whose handler panicked.
func (s *Service) Failed() []*Event[any] {
	var ret []*Event[any]
	for _, msg := range s.queue.DeadLetters() {
		ret = append(ret, msg.T())
	}
	return ret
}

// Close stops the listener and the queue.
func (s *Service) Close() error {
	s.mux.Lock()
	listener := s.listener
	s.listener = nil
	s.mux.Unlock()
	if listener != nil {
		listener.Stop()
	}
	return s.queue.Close()
}
