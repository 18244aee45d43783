package idgen

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	id := New()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, New())
}

func TestNewFunc(t *testing.T) {
	previous := NewFunc
	defer func() { NewFunc = previous }()
	NewFunc = func() string { return "run-1" }
	assert.Equal(t, "run-1", New())
}
