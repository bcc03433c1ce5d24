package sysinfo

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// buildMemoryDevice assembles a synthetic SMBIOS type 17 structure with
// the given size word, type code, speed, and string table entries.
func buildMemoryDevice(t *testing.T, sizeWord uint16, typeCode byte, speed uint16, strs ...string) []byte {
	t.Helper()

	const length = 0x22
	raw := make([]byte, length)
	raw[0] = smbiosTypeMemoryDevice
	raw[offStructLength] = length
	binary.LittleEndian.PutUint16(raw[offSize:], sizeWord)
	raw[offMemoryType] = typeCode
	binary.LittleEndian.PutUint16(raw[offSpeed:], speed)

	// Wire string indexes: 1=device locator, 2=manufacturer, 3=part number.
	if len(strs) > 0 {
		raw[offDeviceLocator] = 1
	}
	if len(strs) > 1 {
		raw[offManufacturer] = 2
	}
	if len(strs) > 2 {
		raw[offPartNumber] = 3
	}

	for _, s := range strs {
		raw = append(raw, []byte(s)...)
		raw = append(raw, 0)
	}
	raw = append(raw, 0)
	return raw
}

func TestParseMemoryDevice(t *testing.T) {
	t.Run("ddr4 module", func(t *testing.T) {
		raw := buildMemoryDevice(t, 8192, 26, 3200, "DIMM_A1", "Corsair", "CMK16GX4M2B3200C16")

		module, ok := parseMemoryDevice(raw)
		require.True(t, ok)

		assert.Equal(t, "DIMM_A1", module.Slot)
		assert.Equal(t, "Corsair", module.Manufacturer)
		assert.Equal(t, "CMK16GX4M2B3200C16", module.PartNumber)
		assert.Equal(t, uint64(8192)*uint64(types.MiB), module.SizeBytes)
		assert.Equal(t, 3200, module.SpeedMTs)
		assert.Equal(t, "DDR4", module.Generation)
	})

	t.Run("ddr5 module", func(t *testing.T) {
		raw := buildMemoryDevice(t, 16384, 34, 6000, "DIMM_B2", "G.Skill", "F5-6000J3038F16G")

		module, ok := parseMemoryDevice(raw)
		require.True(t, ok)
		assert.Equal(t, "DDR5", module.Generation)
		assert.Equal(t, 6000, module.SpeedMTs)
	})

	t.Run("empty slot skipped", func(t *testing.T) {
		raw := buildMemoryDevice(t, 0, 26, 0)

		_, ok := parseMemoryDevice(raw)
		assert.False(t, ok)
	})

	t.Run("size in kb units", func(t *testing.T) {
		raw := buildMemoryDevice(t, 0x8000|512, 20, 400)

		module, ok := parseMemoryDevice(raw)
		require.True(t, ok)
		assert.Equal(t, uint64(512)*uint64(types.KiB), module.SizeBytes)
	})

	t.Run("extended size", func(t *testing.T) {
		raw := buildMemoryDevice(t, 0x7FFF, 34, 5600)
		binary.LittleEndian.PutUint32(raw[offExtendedSize:], 49152)

		module, ok := parseMemoryDevice(raw)
		require.True(t, ok)
		assert.Equal(t, uint64(49152)*uint64(types.MiB), module.SizeBytes)
	})

	t.Run("placeholder strings dropped", func(t *testing.T) {
		raw := buildMemoryDevice(t, 4096, 24, 1600, "ChannelA", "To Be Filled By O.E.M.", "Unknown")

		module, ok := parseMemoryDevice(raw)
		require.True(t, ok)
		assert.Equal(t, "ChannelA", module.Slot)
		assert.Empty(t, module.Manufacturer)
		assert.Empty(t, module.PartNumber)
	})

	t.Run("wrong structure type", func(t *testing.T) {
		raw := buildMemoryDevice(t, 8192, 26, 3200)
		raw[0] = 4 // processor structure

		_, ok := parseMemoryDevice(raw)
		assert.False(t, ok)
	})

	t.Run("truncated data", func(t *testing.T) {
		_, ok := parseMemoryDevice([]byte{17, 0x10})
		assert.False(t, ok)
	})
}

func TestGenerationFor(t *testing.T) {
	tests := []struct {
		name     string
		typeCode byte
		part     string
		speed    int
		want     string
	}{
		{name: "code ddr", typeCode: 20, want: "DDR"},
		{name: "code ddr2", typeCode: 21, want: "DDR2"},
		{name: "code ddr2 fbdimm", typeCode: 22, want: "DDR2 FB-DIMM"},
		{name: "code ddr3", typeCode: 24, want: "DDR3"},
		{name: "code ddr4", typeCode: 26, want: "DDR4"},
		{name: "code ddr5", typeCode: 34, want: "DDR5"},
		{name: "part number token", typeCode: 2, part: "KF560C36-DDR5-32", want: "DDR5"},
		{name: "part token beats speed", typeCode: 2, part: "ddr3-special", speed: 5200, want: "DDR3"},
		{name: "speed ddr5", typeCode: 2, speed: 4800, want: "DDR5"},
		{name: "speed ddr4", typeCode: 2, speed: 3200, want: "DDR4"},
		{name: "speed ddr4 floor", typeCode: 2, speed: 2133, want: "DDR4"},
		{name: "speed ddr3", typeCode: 2, speed: 1600, want: "DDR3"},
		{name: "speed ddr2", typeCode: 2, speed: 667, want: "DDR2"},
		{name: "too slow", typeCode: 2, speed: 266, want: "Unknown"},
		{name: "nothing known", typeCode: 2, want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generationFor(tt.typeCode, tt.part, tt.speed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStringTable(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []string
	}{
		{name: "two strings", data: []byte("DIMM_A1\x00Corsair\x00\x00"), want: []string{"DIMM_A1", "Corsair"}},
		{name: "empty table", data: []byte{0}, want: nil},
		{name: "no data", data: nil, want: nil},
		{name: "unterminated tail ignored", data: []byte("abc\x00def"), want: []string{"abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseStringTable(tt.data))
		})
	}
}
