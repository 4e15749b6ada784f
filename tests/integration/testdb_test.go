package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireProvider(t *testing.T) {
	t.Run("missing docker host skips", func(t *testing.T) {
		var skipped, reached bool
		t.Run("check", func(t *testing.T) {
			defer func() { skipped = t.Skipped() }()
			requireProvider(t, func(*testing.T) { panic("rootless Docker not found") })
			reached = true
		})
		assert.True(t, skipped)
		assert.False(t, reached)
	})

	t.Run("healthy provider continues", func(t *testing.T) {
		var skipped, reached bool
		t.Run("check", func(t *testing.T) {
			defer func() { skipped = t.Skipped() }()
			requireProvider(t, func(*testing.T) {})
			reached = true
		})
		assert.False(t, skipped)
		assert.True(t, reached)
	})
}
