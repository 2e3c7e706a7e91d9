package alert

import "testing"

func TestAlertTypeLabelKnown(t *testing.T) {
	tests := []struct {
		in   AlertType
		want string
	}{
		{SevereWeatherWarning, "Severe Weather Warning"},
		{ShelterInPlace, "Shelter in Place"},
		{HazmatIncident, "Hazmat Incident"},
		{WaterEmergency, "Water Emergency"},
	}
	for _, tt := range tests {
		if got := tt.in.Label(); got != tt.want {
			t.Errorf("%s.Label() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAlertTypesAllLabelled(t *testing.T) {
	if len(AlertTypes) != 19 {
		t.Fatalf("len(AlertTypes) = %d, want 19", len(AlertTypes))
	}
	for _, at := range AlertTypes {
		if !at.Known() {
			t.Errorf("%s should be known", at)
		}
		if at.Icon() == "alert" {
			t.Errorf("%s has no icon", at)
		}
	}
}

func TestTypeLabelFallback(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"flood_warning", "Flood Warning"},
		{"  Tornado_Warning ", "Tornado Warning"},
		{"SOLAR_FLARE_NOTICE", "Solar Flare Notice"},
		{"gas_leak", "Gas Leak"},
		{"", "Unknown Alert"},
		{"___", "Unknown Alert"},
	}
	for _, tt := range tests {
		if got := TypeLabel(tt.raw); got != tt.want {
			t.Errorf("TypeLabel(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		raw  string
		want Severity
	}{
		{"INFO", Info},
		{"advisory", Advisory},
		{"Watch", Watch},
		{"WARNING", Warning},
		{"emergency", Emergency},
		{"CRITICAL", Critical},
		{"LOW", Info},
		{"medium", Watch},
		{"HIGH", Warning},
		{"catastrophic", SeverityUnknown},
		{"", SeverityUnknown},
	}
	for _, tt := range tests {
		if got := ParseSeverity(tt.raw); got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestSeverityOrdering(t *testing.T) {
	for i := 1; i < len(Severities); i++ {
		lo, hi := Severities[i-1], Severities[i]
		if lo.Compare(hi) != -1 || hi.Compare(lo) != 1 {
			t.Errorf("expected %s < %s", lo, hi)
		}
		if !hi.AtLeast(lo) || lo.AtLeast(hi) {
			t.Errorf("AtLeast inconsistent for %s/%s", lo, hi)
		}
	}
	if Highest(Watch, Critical, Info) != Critical {
		t.Error("Highest should pick Critical")
	}
	if Highest() != SeverityUnknown {
		t.Error("Highest of nothing should be SeverityUnknown")
	}
}

func TestSeverityColor(t *testing.T) {
	want := map[Severity]string{
		Info:      "#2196F3",
		Advisory:  "#4CAF50",
		Watch:     "#FF9800",
		Warning:   "#FF5722",
		Emergency: "#F44336",
		Critical:  "#9C27B0",
	}
	for sev, color := range want {
		if got := sev.Color(); got != color {
			t.Errorf("%s.Color() = %q, want %q", sev, got, color)
		}
	}
	if got := SeverityColor("nonsense"); got != FallbackColor {
		t.Errorf("fallback color = %q, want %q", got, FallbackColor)
	}
	if got := SeverityColor("medium"); got != "#FF9800" {
		t.Errorf("legacy MEDIUM color = %q, want orange", got)
	}
}

func TestSeverityIconBands(t *testing.T) {
	want := map[Severity]string{
		Info:      IconInfo,
		Advisory:  IconWarning,
		Watch:     IconWarning,
		Warning:   IconError,
		Emergency: IconPriorityHigh,
		Critical:  IconPriorityHigh,
	}
	for sev, icon := range want {
		if got := sev.Icon(); got != icon {
			t.Errorf("%s.Icon() = %q, want %q", sev, got, icon)
		}
	}
	if got := SeverityIcon("whatever"); got != IconInfo {
		t.Errorf("fallback icon = %q, want %q", got, IconInfo)
	}
}

func TestSeverityLabelFallback(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"critical", "Critical"},
		{"HIGH", "Warning"},
		{"SEVERE", "Severe"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := SeverityLabel(tt.raw); got != tt.want {
			t.Errorf("SeverityLabel(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDisplayMappingIdempotent(t *testing.T) {
	for _, sev := range append([]Severity{SeverityUnknown}, Severities...) {
		if sev.Color() != sev.Color() || sev.Icon() != sev.Icon() || sev.Label() != sev.Label() {
			t.Errorf("mapping for %s is not deterministic", sev)
		}
		if ParseSeverity(sev.String()) != sev {
			t.Errorf("ParseSeverity(%s.String()) did not round-trip", sev)
		}
	}
}

func TestSeverityTextRoundTrip(t *testing.T) {
	var s Severity
	if err := s.UnmarshalText([]byte("emergency")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if s != Emergency {
		t.Errorf("got %v, want Emergency", s)
	}
	b, _ := s.MarshalText()
	if string(b) != "EMERGENCY" {
		t.Errorf("MarshalText = %q, want EMERGENCY", b)
	}
}

func TestDefaultMessage(t *testing.T) {
	got := DefaultMessage(FloodWarning, Warning, "  40.712800, -74.006000 ")
	want := "Flood Warning - Warning level alert at 40.712800, -74.006000"
	if got != want {
		t.Errorf("DefaultMessage = %q, want %q", got, want)
	}
}
