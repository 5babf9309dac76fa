package platform

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequestID_ReturnsValidUUIDString(t *testing.T) {
	id := NewRequestID()
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, id)
}

func TestNewRequestID_ReturnsUniqueValues(t *testing.T) {
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		id := NewRequestID()
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
}

func TestIdentity(t *testing.T) {
	id := Identity("worker")
	assert.True(t, strings.HasPrefix(id, fmt.Sprintf("%d@", os.Getpid())), id)
	assert.Regexp(t, `@worker-[0-9a-f]{8}$`, id)

	assert.Regexp(t, `@signalstart-[0-9a-f]{8}$`, Identity(""))
	assert.NotEqual(t, Identity("worker"), Identity("worker"))
}
