package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/procsim/service/messaging"
	"go.uber.org/zap"
)

// Listener drains a publisher's queue on a single goroutine, so handlers see
// events in publication order.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	logger    *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]), logger *zap.Logger) *Listener[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Stop signals the listener goroutine to exit; it does not wait.
func (l *Listener[T]) Stop() {
	l.cancel()
}

// Done is closed once the listener goroutine has exited.
func (l *Listener[T]) Done() <-chan struct{} {
	return l.done
}

func (l *Listener[T]) Start() {
	go func() {
		defer close(l.done)
		for {
			msg, err := l.publisher.Consume(l.ctx)
			if err != nil {
				if l.ctx.Err() != nil || errors.Is(err, messaging.ErrClosed) {
					return
				}
				l.logger.Warn("failed to consume event", zap.Error(err))
				continue
			}
			l.dispatch(msg)
		}
	}()
}

func (l *Listener[T]) dispatch(msg messaging.Message[Event[T]]) {
	var handlerErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				handlerErr = fmt.Errorf("event handler panic: %v", r)
			}
		}()
		l.handler(msg.T())
	}()
	if handlerErr != nil {
		l.logger.Error("event handler failed", zap.Error(handlerErr))
		_ = msg.Nack(handlerErr)
		return
	}
	_ = msg.Ack()
}
