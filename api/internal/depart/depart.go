// Package depart maps classifier issue labels to the responsible city
// department. The triage service's department wins when it returns one;
// this table is the deterministic fallback.
package depart

import (
	"strings"
	"unicode"
)

const Default = "General Municipal Department"

// Keys are the historical map keys and must stay literal; see normalizeKey.
var departments = map[string]string{
	"potholes":               "Public Works Department (PWD)",
	"DamagedElectricalPoles": "State Electricity Board",
	"garbage":                "Urban Development Department (Municipal Sanitation Wing)",
	"WaterLogging":           "Municipal Drainage Department",
	"FallenTrees":            "Municipal Horticulture Department / Disaster Management Cell",
}

// Resolve is pure and total: any label resolves to a department, unmatched
// labels to Default. The stripped label is tried verbatim first, then with
// its first rune capitalized (the historical key convention).
func Resolve(issueType string) string {
	key := stripSeparators(issueType)
	if d, ok := departments[key]; ok {
		return d
	}
	if d, ok := departments[capitalizeFirst(key)]; ok {
		return d
	}
	return Default
}

func stripSeparators(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}

func capitalizeFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
