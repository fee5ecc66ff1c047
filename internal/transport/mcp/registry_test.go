package mcp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptlab/promptlab/internal/domain/event"
	mcptransport "github.com/promptlab/promptlab/internal/transport/mcp"
)

func TestRegistry_RegisterUnregister(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()

	reg.Register("session-1")
	assert.True(t, reg.IsConnected("session-1"))
	assert.Equal(t, 1, reg.Count())

	assert.True(t, reg.Unregister("session-1"))
	assert.False(t, reg.IsConnected("session-1"))
	assert.False(t, reg.Unregister("session-1"), "second unregister must report unknown session")
}

func TestNotify_NoSessions_NoOp(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()

	err := reg.Notify(context.Background(), event.New(event.TypePromptCreated, "p1"))
	assert.NoError(t, err, "Notify with no sessions must be a no-op")
}

func TestNotify_ServerNotSet(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()
	reg.Register("session-1")

	err := reg.Notify(context.Background(), event.New(event.TypePromptCreated, "p1"))
	assert.Error(t, err)
}
