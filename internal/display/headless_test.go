package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlessWindow(t *testing.T) {
	w := NewHeadlessWindow(nil)
	assert.False(t, w.Visible())

	require.NoError(t, w.Show())
	require.NoError(t, w.Focus())
	assert.True(t, w.Visible())

	require.NoError(t, w.Hide())
	require.NoError(t, w.Hide())
	assert.False(t, w.Visible())

	shows, hides := w.Counts()
	assert.Equal(t, 1, shows)
	assert.Equal(t, 2, hides)
}
