package httphook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExcluderEmpty(t *testing.T) {
	var (
		assert = assert.New(t)
		e      Excluder
	)

	assert.True(e.Empty())
	assert.False(e.IsExcluded("/"))
	assert.False(e.IsExcluded(""))

	var nilExcluder *Excluder
	assert.True(nilExcluder.Empty())
	assert.False(nilExcluder.IsExcluded("/"))
}

func testExcluderPaths(t *testing.T) {
	var (
		assert = assert.New(t)
		e      Excluder
	)

	e.AddPath("/bye", "/health")
	assert.False(e.Empty())
	assert.True(e.IsExcluded("/bye"))
	assert.True(e.IsExcluded("/health"))
	assert.False(e.IsExcluded("/bye/"))
	assert.False(e.IsExcluded("/Bye"))
	assert.False(e.IsExcluded("/hey"))
}

func testExcluderPatterns(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		e       Excluder
	)

	require.NoError(e.AddPattern(`^/\d$`))
	require.NoError(e.AddPattern(`\.(css|js)$`))
	assert.False(e.Empty())

	assert.True(e.IsExcluded("/1"))
	assert.False(e.IsExcluded("/12"))
	assert.False(e.IsExcluded("/a"))
	assert.True(e.IsExcluded("/static/site.css"))
	assert.True(e.IsExcluded("/app.js"))
	assert.False(e.IsExcluded("/app.json"))
}

func testExcluderBadPattern(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		e       Excluder
	)

	err := e.AddPattern(`a(b`)
	require.Error(err)

	var ce *ConfigError
	require.ErrorAs(err, &ce)
	assert.Equal("exclude regex", ce.Op)
	assert.Equal(`a(b`, ce.Value)
	assert.True(e.Empty())
}

func testExcluderCombined(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		e       Excluder
	)

	// order of rules doesn't matter
	require.NoError(e.AddPattern(`^/internal/`))
	e.AddPath("/bye")

	assert.True(e.IsExcluded("/bye"))
	assert.True(e.IsExcluded("/internal/status"))
	assert.False(e.IsExcluded("/public/internal/"))
}

func testExcluderClone(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		e       Excluder
	)

	e.AddPath("/a")
	require.NoError(e.AddPattern(`^/b`))

	c := e.clone()
	e.AddPath("/c")
	require.NoError(e.AddPattern(`^/d`))

	assert.True(c.IsExcluded("/a"))
	assert.True(c.IsExcluded("/b"))
	assert.False(c.IsExcluded("/c"))
	assert.False(c.IsExcluded("/d"))
}

func TestExcluder(t *testing.T) {
	t.Run("Empty", testExcluderEmpty)
	t.Run("Paths", testExcluderPaths)
	t.Run("Patterns", testExcluderPatterns)
	t.Run("BadPattern", testExcluderBadPattern)
	t.Run("Combined", testExcluderCombined)
	t.Run("Clone", testExcluderClone)
}
