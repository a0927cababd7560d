package testutil

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestContextAwareLogging(t *testing.T) {
	t.Parallel()

	ctx, getLogs := NewTestContext(t)

	zerolog.Ctx(ctx).Debug().Msg("Test message")

	output := getLogs()
	assert.Contains(t, output, "Test message")
}
