package alert

import (
	"fmt"
	"strings"
)

// Icon identifiers for severity bands.
const (
	IconInfo         = "info"
	IconWarning      = "warning"
	IconError        = "error"
	IconPriorityHigh = "priority-high"
)

// FallbackColor is used for any severity outside the defined scale.
const FallbackColor = "#666666"

type typeInfo struct {
	label string
	icon  string
	color string
}

var alertTypeInfo = map[AlertType]typeInfo{
	SevereWeatherWarning:  {"Severe Weather Warning", "weather-lightning", "#FF9800"},
	FloodWarning:          {"Flood Warning", "water", "#2196F3"},
	TornadoWarning:        {"Tornado Warning", "weather-tornado", "#F44336"},
	HurricaneWarning:      {"Hurricane Warning", "weather-hurricane", "#9C27B0"},
	EarthquakeAlert:       {"Earthquake Alert", "earth", "#795548"},
	TsunamiWarning:        {"Tsunami Warning", "waves", "#00BCD4"},
	WildfireAlert:         {"Wildfire Alert", "fire", "#FF5722"},
	CivilEmergency:        {"Civil Emergency", "alert-circle", "#F44336"},
	AmberAlert:            {"Amber Alert", "account-alert", "#FF9800"},
	SilverAlert:           {"Silver Alert", "account-alert", "#9E9E9E"},
	TerrorismAlert:        {"Terrorism Alert", "shield-alert", "#D32F2F"},
	HazmatIncident:        {"Hazmat Incident", "flask", "#4CAF50"},
	InfrastructureFailure: {"Infrastructure Failure", "wrench", "#607D8B"},
	PublicHealthEmergency: {"Public Health Emergency", "medical-bag", "#E91E63"},
	EvacuationOrder:       {"Evacuation Order", "run", "#FF5722"},
	ShelterInPlace:        {"Shelter in Place", "home", "#3F51B5"},
	RoadClosure:           {"Road Closure", "road", "#FF9800"},
	PowerOutage:           {"Power Outage", "flash-off", "#424242"},
	WaterEmergency:        {"Water Emergency", "water-off", "#2196F3"},
}

type severityInfo struct {
	label       string
	color       string
	description string
}

var severityInfos = map[Severity]severityInfo{
	Info:      {"Info", "#2196F3", "Informational message, no immediate action required"},
	Advisory:  {"Advisory", "#4CAF50", "Advisory notice, be aware of conditions"},
	Watch:     {"Watch", "#FF9800", "Watch conditions, prepare for possible emergency"},
	Warning:   {"Warning", "#FF5722", "Warning conditions, take immediate action"},
	Emergency: {"Emergency", "#F44336", "Emergency conditions, immediate action required"},
	Critical:  {"Critical", "#9C27B0", "Critical conditions, life-threatening situation"},
}

// Label returns the human-readable name of t. Unknown categories are
// title-cased word by word ("SOME_NEW_TYPE" -> "Some New Type").
func (t AlertType) Label() string {
	if info, ok := alertTypeInfo[t]; ok {
		return info.label
	}
	if label := titleWords(strings.TrimSpace(string(t))); label != "" {
		return label
	}
	return "Unknown Alert"
}

// Icon returns the picker icon id for t.
func (t AlertType) Icon() string {
	if info, ok := alertTypeInfo[t]; ok {
		return info.icon
	}
	return "alert"
}

// Color returns the accent color for t.
func (t AlertType) Color() string {
	if info, ok := alertTypeInfo[t]; ok {
		return info.color
	}
	return FallbackColor
}

// Label returns the human-readable name of s.
func (s Severity) Label() string {
	if info, ok := severityInfos[s]; ok {
		return info.label
	}
	return "Unknown"
}

// Color returns the ordinal color for s, from blue (info) to purple
// (critical).
func (s Severity) Color() string {
	if info, ok := severityInfos[s]; ok {
		return info.color
	}
	return FallbackColor
}

// Description returns a one-line explanation of s.
func (s Severity) Description() string {
	if info, ok := severityInfos[s]; ok {
		return info.description
	}
	return "Unknown severity level"
}

// Icon returns the icon category for s. Bands are contiguous and do not
// overlap: info | advisory..watch | warning | emergency..critical.
func (s Severity) Icon() string {
	switch {
	case !s.Known():
		return IconInfo
	case s.AtLeast(Emergency):
		return IconPriorityHigh
	case s.AtLeast(Warning):
		return IconError
	case s.AtLeast(Advisory):
		return IconWarning
	default:
		return IconInfo
	}
}

// TypeLabel labels a raw alert-type string.
func TypeLabel(raw string) string {
	return ParseAlertType(raw).Label()
}

// SeverityLabel labels a raw severity string. Unrecognized input is
// capitalized rather than rejected.
func SeverityLabel(raw string) string {
	if sev := ParseSeverity(raw); sev.Known() {
		return sev.Label()
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Unknown"
	}
	return capitalize(raw)
}

// SeverityColor maps a raw severity string to its color.
func SeverityColor(raw string) string {
	return ParseSeverity(raw).Color()
}

// SeverityIcon maps a raw severity string to its icon category.
func SeverityIcon(raw string) string {
	return ParseSeverity(raw).Icon()
}

// DefaultMessage is the alert text used when the reporter leaves the
// description empty.
func DefaultMessage(t AlertType, s Severity, location string) string {
	return fmt.Sprintf("%s - %s level alert at %s", t.Label(), s.Label(), strings.TrimSpace(location))
}

func titleWords(s string) string {
	parts := strings.Split(s, "_")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		words = append(words, capitalize(p))
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
