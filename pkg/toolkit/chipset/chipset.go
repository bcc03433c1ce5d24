// Package chipset identifies the motherboard platform chipset from DMI
// board strings, falling back to an estimate derived from the CPU model
// when the board product carries no recognizable chipset token.
package chipset

import "strings"

// knownChipsets maps board-product substrings to chipset names.
// Ordered so that newer platforms win when a product string carries
// more than one token.
var knownChipsets = []struct {
	token string
	name  string
}{
	{"B650", "AMD B650"},
	{"X670", "AMD X670"},
	{"B550", "AMD B550"},
	{"X570", "AMD X570"},
	{"B450", "AMD B450"},
	{"X470", "AMD X470"},
	{"Z790", "Intel Z790"},
	{"Z690", "Intel Z690"},
	{"B760", "Intel B760"},
	{"B660", "Intel B660"},
}

// Detect returns the chipset for the given board product string,
// estimating from the CPU model when no known token matches.
// It never returns an empty string; the worst case is "Unknown".
func Detect(boardProduct, cpuModel string) string {
	product := strings.ToUpper(boardProduct)
	for _, c := range knownChipsets {
		if strings.Contains(product, c.token) {
			return c.name
		}
	}
	return estimate(cpuModel)
}

// estimate guesses the chipset family from the CPU model name.
// Ryzen 7000-series parts pair with 600-series boards and 5000-series
// parts with 500-series boards; anything else gets a vendor-only label.
func estimate(cpuModel string) string {
	model := strings.ToUpper(cpuModel)

	switch {
	case strings.Contains(model, "AMD") || strings.Contains(model, "RYZEN"):
		if containsSeries(model, "7") {
			return "AMD 600 Series (Estimated)"
		}
		if containsSeries(model, "5") {
			return "AMD 500 Series (Estimated)"
		}
		return "AMD (Unknown Series)"
	case strings.Contains(model, "INTEL"):
		return "Intel (Unknown Series)"
	default:
		return "Unknown"
	}
}

// containsSeries reports whether the model names a four-digit part
// number in the given thousand series, e.g. series "7" matches "7950X"
// inside "AMD Ryzen 9 7950X".
func containsSeries(model, series string) bool {
	for i := 0; i+4 <= len(model); i++ {
		if model[i:i+1] != series {
			continue
		}
		if isDigit(model[i+1]) && isDigit(model[i+2]) && isDigit(model[i+3]) {
			// Reject longer runs of digits, e.g. part of a 5-digit number.
			if i > 0 && isDigit(model[i-1]) {
				continue
			}
			if i+4 < len(model) && isDigit(model[i+4]) {
				continue
			}
			return true
		}
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
