package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

func TestJSONFormatter_Format(t *testing.T) {
	f := &JSONFormatter{}
	var buf bytes.Buffer

	err := f.Format(&buf, sampleReport())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	meta, ok := decoded["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "local", meta["source"])

	info, ok := decoded["info"].(map[string]interface{})
	require.True(t, ok)
	cpu, ok := info["cpu"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "AMD Ryzen 7 7700X 8-Core Processor", cpu["model"])

	snapshot, ok := decoded["snapshot"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 42.5, snapshot["cpu_percent"])
	assert.Equal(t, "1d 5h 36m", snapshot["uptime"])
}

func TestJSONFormatter_OmitsMissingSections(t *testing.T) {
	f := &JSONFormatter{}
	var buf bytes.Buffer

	err := f.Format(&buf, &types.Report{Source: "daemon"})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	_, hasInfo := decoded["info"]
	assert.False(t, hasInfo)
	_, hasSnapshot := decoded["snapshot"]
	assert.False(t, hasSnapshot)
}
