// Package alert defines the alert-type and severity enumerations and their
// display mappings (labels, colors, icons).
package alert

import "strings"

// AlertType is one of the alert categories known to the backend. Values
// outside the known set are carried as-is so they can still be labelled.
type AlertType string

// Known alert categories. Wire values are upper-snake-case.
const (
	SevereWeatherWarning  AlertType = "SEVERE_WEATHER_WARNING"
	FloodWarning          AlertType = "FLOOD_WARNING"
	TornadoWarning        AlertType = "TORNADO_WARNING"
	HurricaneWarning      AlertType = "HURRICANE_WARNING"
	EarthquakeAlert       AlertType = "EARTHQUAKE_ALERT"
	TsunamiWarning        AlertType = "TSUNAMI_WARNING"
	WildfireAlert         AlertType = "WILDFIRE_ALERT"
	CivilEmergency        AlertType = "CIVIL_EMERGENCY"
	AmberAlert            AlertType = "AMBER_ALERT"
	SilverAlert           AlertType = "SILVER_ALERT"
	TerrorismAlert        AlertType = "TERRORISM_ALERT"
	HazmatIncident        AlertType = "HAZMAT_INCIDENT"
	InfrastructureFailure AlertType = "INFRASTRUCTURE_FAILURE"
	PublicHealthEmergency AlertType = "PUBLIC_HEALTH_EMERGENCY"
	EvacuationOrder       AlertType = "EVACUATION_ORDER"
	ShelterInPlace        AlertType = "SHELTER_IN_PLACE"
	RoadClosure           AlertType = "ROAD_CLOSURE"
	PowerOutage           AlertType = "POWER_OUTAGE"
	WaterEmergency        AlertType = "WATER_EMERGENCY"
)

// AlertTypes lists every known category in picker order.
var AlertTypes = []AlertType{
	SevereWeatherWarning,
	FloodWarning,
	TornadoWarning,
	HurricaneWarning,
	EarthquakeAlert,
	TsunamiWarning,
	WildfireAlert,
	CivilEmergency,
	AmberAlert,
	SilverAlert,
	TerrorismAlert,
	HazmatIncident,
	InfrastructureFailure,
	PublicHealthEmergency,
	EvacuationOrder,
	ShelterInPlace,
	RoadClosure,
	PowerOutage,
	WaterEmergency,
}

// Severity is an ordered alert level.
type Severity int

// Severity levels in ascending order. SeverityUnknown sorts below Info and
// is the fallback variant for unrecognized input.
const (
	SeverityUnknown Severity = iota
	Info
	Advisory
	Watch
	Warning
	Emergency
	Critical
)

// Severities lists every defined level in ascending order.
var Severities = []Severity{Info, Advisory, Watch, Warning, Emergency, Critical}

var severityWire = map[Severity]string{
	Info:      "INFO",
	Advisory:  "ADVISORY",
	Watch:     "WATCH",
	Warning:   "WARNING",
	Emergency: "EMERGENCY",
	Critical:  "CRITICAL",
}

// legacySeverities maps the older LOW/MEDIUM/HIGH scale onto the current one.
var legacySeverities = map[string]Severity{
	"LOW":    Info,
	"MEDIUM": Watch,
	"HIGH":   Warning,
}

// ParseAlertType normalizes free text into an AlertType. Matching is
// case-insensitive; unknown input is returned upper-cased so Known reports
// false and Label falls back to title-casing.
func ParseAlertType(s string) AlertType {
	return AlertType(strings.ToUpper(strings.TrimSpace(s)))
}

// Known reports whether t is one of the enumerated categories.
func (t AlertType) Known() bool {
	_, ok := alertTypeInfo[t]
	return ok
}

// String returns the wire value.
func (t AlertType) String() string {
	return string(t)
}

// ParseSeverity normalizes free text into a Severity. Matching is
// case-insensitive and accepts the legacy LOW/MEDIUM/HIGH spellings.
func ParseSeverity(s string) Severity {
	norm := strings.ToUpper(strings.TrimSpace(s))
	for sev, wire := range severityWire {
		if wire == norm {
			return sev
		}
	}
	if sev, ok := legacySeverities[norm]; ok {
		return sev
	}
	return SeverityUnknown
}

// String returns the wire value, or "UNKNOWN".
func (s Severity) String() string {
	if wire, ok := severityWire[s]; ok {
		return wire
	}
	return "UNKNOWN"
}

// Known reports whether s is a defined level.
func (s Severity) Known() bool {
	_, ok := severityWire[s]
	return ok
}

// Compare returns -1, 0 or 1 ordering s against other.
func (s Severity) Compare(other Severity) int {
	switch {
	case s < other:
		return -1
	case s > other:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is at or above threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s >= threshold
}

// MarshalText encodes the wire value.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes any accepted spelling; unknown values decode to
// SeverityUnknown rather than failing.
func (s *Severity) UnmarshalText(b []byte) error {
	*s = ParseSeverity(string(b))
	return nil
}

// Highest returns the highest severity in levels, or SeverityUnknown when
// levels is empty.
func Highest(levels ...Severity) Severity {
	top := SeverityUnknown
	for _, l := range levels {
		if l > top {
			top = l
		}
	}
	return top
}
