package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestYAMLFormatter_Format(t *testing.T) {
	f := &YAMLFormatter{}
	var buf bytes.Buffer

	err := f.Format(&buf, sampleReport())
	require.NoError(t, err)

	var decoded yamlOutput
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "local", decoded.Meta.Source)
	require.NotNil(t, decoded.Info)
	assert.Equal(t, "AMD Ryzen 7 7700X 8-Core Processor", decoded.Info.CPU.Model)
	assert.Equal(t, "AMD B650", decoded.Info.Board.Chipset)
	require.NotNil(t, decoded.Snapshot)
	assert.Equal(t, 42.5, decoded.Snapshot.CPUPercent)
	assert.Equal(t, "1d 5h 36m", decoded.Snapshot.Uptime)
	require.Len(t, decoded.Snapshot.Disks, 1)
	assert.Equal(t, "/", decoded.Snapshot.Disks[0].Mountpoint)
}
