package sysinfo

import (
	"encoding/binary"
	"strings"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// SMBIOS Memory Device (type 17) field offsets.
const (
	smbiosTypeMemoryDevice = 17

	offStructLength  = 0x01
	offSize          = 0x0C
	offDeviceLocator = 0x10
	offMemoryType    = 0x12
	offSpeed         = 0x15
	offManufacturer  = 0x17
	offPartNumber    = 0x1A
	offExtendedSize  = 0x1C
)

// memoryTypeNames maps SMBIOS memory type codes to DDR generations.
// Codes outside this map fall through to part-number and speed heuristics.
var memoryTypeNames = map[byte]string{
	20: "DDR",
	21: "DDR2",
	22: "DDR2 FB-DIMM",
	24: "DDR3",
	26: "DDR4",
	34: "DDR5",
}

// generationFor resolves the DDR generation for a module. The SMBIOS type
// code wins when recognized; otherwise the part number is scanned for a
// generation token, and finally the module speed places it in an era
// (DDR5 parts start at 4800 MT/s, DDR4 at 2133, DDR3 at 800, DDR2 at 400).
func generationFor(typeCode byte, partNumber string, speedMTs int) string {
	if name, ok := memoryTypeNames[typeCode]; ok {
		return name
	}

	part := strings.ToUpper(partNumber)
	for _, gen := range []string{"DDR5", "DDR4", "DDR3", "DDR2"} {
		if strings.Contains(part, gen) {
			return gen
		}
	}

	switch {
	case speedMTs >= 4800:
		return "DDR5"
	case speedMTs >= 2133:
		return "DDR4"
	case speedMTs >= 800:
		return "DDR3"
	case speedMTs >= 400:
		return "DDR2"
	default:
		return "Unknown"
	}
}

// parseMemoryDevice decodes one SMBIOS Memory Device structure, including
// its trailing string table. It returns false for non-type-17 structures,
// truncated data, and empty slots.
func parseMemoryDevice(raw []byte) (types.MemoryModule, bool) {
	if len(raw) < offMemoryType+1 || raw[0] != smbiosTypeMemoryDevice {
		return types.MemoryModule{}, false
	}

	length := int(raw[offStructLength])
	if length < offMemoryType+1 || length > len(raw) {
		return types.MemoryModule{}, false
	}

	sizeBytes, populated := decodeSize(raw, length)
	if !populated {
		return types.MemoryModule{}, false
	}

	strs := parseStringTable(raw[length:])
	str := func(off int) string {
		if off >= length {
			return ""
		}
		idx := int(raw[off])
		if idx == 0 || idx > len(strs) {
			return ""
		}
		return cleanDMIString(strs[idx-1])
	}

	module := types.MemoryModule{
		Slot:         str(offDeviceLocator),
		Manufacturer: str(offManufacturer),
		PartNumber:   str(offPartNumber),
		SizeBytes:    sizeBytes,
	}

	if length >= offSpeed+2 {
		module.SpeedMTs = int(binary.LittleEndian.Uint16(raw[offSpeed : offSpeed+2]))
	}

	module.Generation = generationFor(raw[offMemoryType], module.PartNumber, module.SpeedMTs)
	return module, true
}

// decodeSize interprets the SMBIOS size word. Bit 15 selects KB units;
// the sentinel 0x7FFF defers to the extended size dword in MB.
func decodeSize(raw []byte, length int) (uint64, bool) {
	if length < offSize+2 {
		return 0, false
	}

	size := binary.LittleEndian.Uint16(raw[offSize : offSize+2])
	switch size {
	case 0:
		// Empty slot.
		return 0, false
	case 0xFFFF:
		// Installed but size unknown.
		return 0, true
	case 0x7FFF:
		if length < offExtendedSize+4 {
			return 0, true
		}
		extMB := binary.LittleEndian.Uint32(raw[offExtendedSize : offExtendedSize+4])
		return uint64(extMB) * uint64(types.MiB), true
	}

	if size&0x8000 != 0 {
		return uint64(size&0x7FFF) * uint64(types.KiB), true
	}
	return uint64(size) * uint64(types.MiB), true
}

// parseStringTable splits the SMBIOS string table that follows the
// formatted area: null-terminated strings ended by a double null.
func parseStringTable(data []byte) []string {
	var strs []string
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] != 0 {
			continue
		}
		if i == start {
			// Double null terminates the table.
			break
		}
		strs = append(strs, string(data[start:i]))
		start = i + 1
	}
	return strs
}

// cleanDMIString normalizes firmware-supplied strings, dropping the
// placeholder values vendors ship in empty fields.
func cleanDMIString(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "to be filled by o.e.m.", "unknown", "not specified", "none", "n/a", "no dimm":
		return ""
	}
	return s
}
