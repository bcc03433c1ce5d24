package chipset

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		product string
		cpu     string
		want    string
	}{
		// Direct board token matches
		{name: "b650 board", product: "ROG STRIX B650-A GAMING WIFI", cpu: "", want: "AMD B650"},
		{name: "x670 board", product: "MEG X670E ACE", cpu: "", want: "AMD X670"},
		{name: "b550 board", product: "B550 AORUS ELITE", cpu: "", want: "AMD B550"},
		{name: "x570 board", product: "X570 Phantom Gaming 4", cpu: "", want: "AMD X570"},
		{name: "b450 board", product: "B450 TOMAHAWK MAX", cpu: "", want: "AMD B450"},
		{name: "x470 board", product: "PRIME X470-PRO", cpu: "", want: "AMD X470"},
		{name: "z790 board", product: "ROG MAXIMUS Z790 HERO", cpu: "", want: "Intel Z790"},
		{name: "z690 board", product: "Z690 UD DDR4", cpu: "", want: "Intel Z690"},
		{name: "b760 board", product: "PRO B760M-A WIFI", cpu: "", want: "Intel B760"},
		{name: "b660 board", product: "B660M DS3H AX", cpu: "", want: "Intel B660"},
		{name: "lowercase token", product: "rog strix b550-f gaming", cpu: "", want: "AMD B550"},

		// CPU-based estimation
		{
			name:    "ryzen 7000 estimates 600 series",
			product: "Custom OEM Board",
			cpu:     "AMD Ryzen 9 7950X 16-Core Processor",
			want:    "AMD 600 Series (Estimated)",
		},
		{
			name:    "ryzen 5000 estimates 500 series",
			product: "Custom OEM Board",
			cpu:     "AMD Ryzen 5 5600X 6-Core Processor",
			want:    "AMD 500 Series (Estimated)",
		},
		{
			name:    "ryzen 7600 is 7000 series not 600",
			product: "",
			cpu:     "AMD Ryzen 5 7600",
			want:    "AMD 600 Series (Estimated)",
		},
		{
			name:    "older amd unknown series",
			product: "Unknown Board",
			cpu:     "AMD Ryzen 7 3700X 8-Core Processor",
			want:    "AMD (Unknown Series)",
		},
		{
			name:    "intel cpu unknown series",
			product: "OEM",
			cpu:     "Intel(R) Core(TM) i7-12700K",
			want:    "Intel (Unknown Series)",
		},
		{name: "nothing known", product: "", cpu: "", want: "Unknown"},
		{name: "non x86 cpu", product: "", cpu: "Apple M2", want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.product, tt.cpu); got != tt.want {
				t.Errorf("Detect(%q, %q) = %q, want %q", tt.product, tt.cpu, got, tt.want)
			}
		})
	}
}

func TestContainsSeries(t *testing.T) {
	tests := []struct {
		name   string
		model  string
		series string
		want   bool
	}{
		{name: "standalone part number", model: "RYZEN 9 7950X", series: "7", want: true},
		{name: "series digit elsewhere", model: "RYZEN 7 3700X", series: "7", want: false},
		{name: "five digit run rejected", model: "MODEL 57950", series: "7", want: false},
		{name: "trailing extra digit rejected", model: "79501", series: "7", want: false},
		{name: "at end of string", model: "RYZEN 5 5600", series: "5", want: true},
		{name: "empty model", model: "", series: "7", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containsSeries(tt.model, tt.series); got != tt.want {
				t.Errorf("containsSeries(%q, %q) = %v, want %v", tt.model, tt.series, got, tt.want)
			}
		})
	}
}
