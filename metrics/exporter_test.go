package metrics

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriterProvider(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	provider, err := NewWriterProvider(ctx, "procsim", "test", &out, time.Hour)
	require.NoError(t, err)

	m, err := New(provider)
	require.NoError(t, err)
	m.Transition(ctx, "running")
	m.Completed(ctx)

	require.NoError(t, provider.Shutdown(ctx))
	assert.Contains(t, out.String(), TransitionsName)
	assert.Contains(t, out.String(), CompletedName)
	assert.Contains(t, out.String(), "procsim")
}
