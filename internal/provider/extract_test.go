package provider

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractValue(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		want   float64
		wantOK bool
	}{
		{"nil", nil, 0, false},
		{"float", 412.5, 412.5, true},
		{"int", 7, 7, true},
		{"quoted", " 530 ", 530, true},
		{"garbage string", "n/a", 0, false},
		{"nested total", map[string]interface{}{"total": 15.0}, 15, true},
		{"nested without known key", map[string]interface{}{"x": 1.0}, 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractValue(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumberUnmarshal(t *testing.T) {
	var payload struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 451, "b": "38.6", "c": null}`), &payload))

	assert.True(t, payload.A.Valid)
	assert.Equal(t, 451, payload.A.Int())
	assert.Equal(t, 39, payload.B.Int())
	assert.InDelta(t, 38.6, payload.B.Float(), 1e-9)
	assert.False(t, payload.C.Valid)
	assert.Equal(t, 0, payload.C.Int())
	assert.False(t, payload.D.Valid)
}
