package models

import (
	"fmt"
	"slices"
	"strings"
)

// Hour bounds of a day.
const (
	MinHour = 0
	MaxHour = 23
)

// CodeSet is a set of provider or site codes.
type CodeSet map[string]struct{}

// NewCodeSet builds a set from codes.
func NewCodeSet(codes ...string) CodeSet {
	s := make(CodeSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Has reports membership. A nil set contains nothing.
func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Sorted returns the members in ascending order.
func (s CodeSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy.
func (s CodeSet) Clone() CodeSet {
	out := make(CodeSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// HourRange is an inclusive range of hours of the day.
type HourRange struct {
	Min int
	Max int
}

// FullDay covers every hour.
var FullDay = HourRange{Min: MinHour, Max: MaxHour}

// Contains reports whether hour lies within the range.
func (h HourRange) Contains(hour int) bool {
	return hour >= h.Min && hour <= h.Max
}

// Valid reports whether the range is ordered and within the day.
func (h HourRange) Valid() bool {
	return h.Min <= h.Max && h.Min >= MinHour && h.Max <= MaxHour
}

// Hours returns the number of hours covered.
func (h HourRange) Hours() int {
	if h.Max < h.Min {
		return 0
	}
	return h.Max - h.Min + 1
}

func (h HourRange) String() string {
	return fmt.Sprintf("%02d-%02d", h.Min, h.Max)
}

// FilterSpec narrows a Dataset to a view. Empty Providers or Sites match
// nothing.
type FilterSpec struct {
	Providers CodeSet
	Sites     CodeSet
	Hours     HourRange
	Metric    Metric
}

// Clone returns a deep copy so callers can keep a spec across edits.
func (f FilterSpec) Clone() FilterSpec {
	return FilterSpec{
		Providers: f.Providers.Clone(),
		Sites:     f.Sites.Clone(),
		Hours:     f.Hours,
		Metric:    f.Metric,
	}
}

// FilterMode controls how a selection expands into a FilterSpec.
type FilterMode int

const (
	// ModeProviderFocus selects providers and implies all of their sites.
	ModeProviderFocus FilterMode = iota
	// ModeSiteFocus selects sites and implies all providers seen there.
	ModeSiteFocus
	// ModeCustom selects providers and sites independently.
	ModeCustom
)

// String returns the display name of the mode.
func (m FilterMode) String() string {
	switch m {
	case ModeProviderFocus:
		return "Provider Focus"
	case ModeSiteFocus:
		return "Site Focus"
	case ModeCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Slug returns the stable identifier used in storage and flags.
func (m FilterMode) Slug() string {
	switch m {
	case ModeSiteFocus:
		return "site_focus"
	case ModeCustom:
		return "custom"
	default:
		return "provider_focus"
	}
}

// Next cycles through the modes.
func (m FilterMode) Next() FilterMode {
	return (m + 1) % 3
}

// ParseFilterMode parses a slug such as "site_focus".
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "provider_focus", "provider":
		return ModeProviderFocus, nil
	case "site_focus", "site":
		return ModeSiteFocus, nil
	case "custom":
		return ModeCustom, nil
	}
	return ModeProviderFocus, fmt.Errorf("unknown filter mode %q", s)
}

// Selection is what the user picked before mode expansion.
type Selection struct {
	Mode      FilterMode
	Providers []string
	Sites     []string
	Hours     HourRange
	Metric    Metric
}

// Clone returns a deep copy.
func (s Selection) Clone() Selection {
	s.Providers = slices.Clone(s.Providers)
	s.Sites = slices.Clone(s.Sites)
	return s
}
