package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procsim/service/messaging"
)

type testPayload struct {
	ID    int
	State string
}

func TestQueue_FIFO(t *testing.T) {
	queue := NewQueue[testPayload](DefaultConfig())
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		require.NoError(t, queue.Publish(ctx, &testPayload{ID: i, State: "ready"}))
	}
	assert.Equal(t, 3, queue.Size())
	for i := 1; i <= 3; i++ {
		msg, err := queue.Consume(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, msg.T().ID)
		assert.NoError(t, msg.Ack())
		assert.Error(t, msg.Ack())
	}
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_Nack(t *testing.T) {
	testCases := []struct {
		description string
		deadLetter  bool
		expectDLQ   int
	}{
		{description: "dead letter enabled", deadLetter: true, expectDLQ: 1},
		{description: "dead letter disabled", deadLetter: false, expectDLQ: 0},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			queue := NewQueue[testPayload](Config{QueueBuffer: 1, DeadLetter: testCase.deadLetter})
			ctx := context.Background()
			require.NoError(t, queue.Publish(ctx, &testPayload{ID: 7}))
			msg, err := queue.Consume(ctx)
			require.NoError(t, err)
			cause := errors.New("observer failed")
			require.NoError(t, msg.Nack(cause))
			assert.Error(t, msg.Nack(cause))
			dlq := queue.DeadLetters()
			require.Len(t, dlq, testCase.expectDLQ)
			if testCase.expectDLQ > 0 {
				assert.Equal(t, 7, dlq[0].T().ID)
				assert.ErrorIs(t, dlq[0].Err(), cause)
			}
		})
	}
}

func TestQueue_ContextAndClose(t *testing.T) {
	queue := NewQueue[testPayload](Config{QueueBuffer: 1})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, queue.Publish(context.Background(), &testPayload{ID: 1}))
	blocked, cancelBlocked := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelBlocked()
	assert.ErrorIs(t, queue.Publish(blocked, &testPayload{ID: 2}), context.DeadlineExceeded)

	require.NoError(t, queue.Close())
	require.NoError(t, queue.Close())
	assert.ErrorIs(t, queue.Publish(context.Background(), &testPayload{ID: 3}), messaging.ErrClosed)
}
