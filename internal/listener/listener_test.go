package listener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	event, err := ParseEvent(`{"heroes":124,"items":210,"ts":1760000000}`)
	require.NoError(t, err)
	assert.Equal(t, CatalogEvent{Heroes: 124, Items: 210, Timestamp: 1760000000}, event)

	event, err = ParseEvent("")
	require.NoError(t, err)
	assert.Zero(t, event)

	_, err = ParseEvent("{not json")
	assert.Error(t, err)
}
