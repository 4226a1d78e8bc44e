package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shokoauto/notifybridge/pkg/commands"
)

func TestState_Terminal(t *testing.T) {
	t.Parallel()

	for _, s := range []commands.State{commands.StateRejected, commands.StateCompleted, commands.StateFailed} {
		assert.True(t, s.Terminal(), s)
	}
	for _, s := range []commands.State{commands.StateReceived, commands.StateAuthorizing, commands.StateDispatching} {
		assert.False(t, s.Terminal(), s)
	}
}
