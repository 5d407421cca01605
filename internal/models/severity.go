package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownSeverity   = errors.New("unknown severity")
	ErrUnknownCategory   = errors.New("unknown hazard category")
	ErrUnknownHazardType = errors.New("unknown hazard type")
	ErrUnknownPrevalence = errors.New("unknown prevalence")
)

// Severity is ordered: a greater value is more severe.
type Severity int

const (
	SeverityUnspecified Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// Severities lists every valid level from least to most severe.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

var severityNames = map[Severity]string{
	SeverityLow:      "low",
	SeverityMedium:   "medium",
	SeverityHigh:     "high",
	SeverityCritical: "critical",
}

func ParseSeverity(s string) (Severity, error) {
	for sev, name := range severityNames {
		if strings.EqualFold(s, name) {
			return sev, nil
		}
	}
	return SeverityUnspecified, fmt.Errorf("%w: %q", ErrUnknownSeverity, s)
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unspecified"
}

func (s Severity) Valid() bool {
	_, ok := severityNames[s]
	return ok
}

func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSeverity, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Category classifies a local hazard.
type Category string

const (
	CategoryWaterContamination Category = "water_contamination"
	CategoryParasite           Category = "parasite"
	CategoryDrowning           Category = "drowning"
	CategoryWildlife           Category = "wildlife"
	CategoryDisease            Category = "disease"
	CategoryEnvironmental      Category = "environmental"
)

var categories = []Category{
	CategoryWaterContamination,
	CategoryParasite,
	CategoryDrowning,
	CategoryWildlife,
	CategoryDisease,
	CategoryEnvironmental,
}

func ParseCategory(s string) (Category, error) {
	return parseClosed(s, categories, ErrUnknownCategory)
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// HazardType classifies a country-level hazard.
type HazardType string

const (
	HazardTypeDisease         HazardType = "disease"
	HazardTypeContamination   HazardType = "contamination"
	HazardTypePollution       HazardType = "pollution"
	HazardTypeNaturalDisaster HazardType = "natural_disaster"
	HazardTypeClimate         HazardType = "climate"
	HazardTypeWildlife        HazardType = "wildlife"
	HazardTypeEnvironmental   HazardType = "environmental"
)

var hazardTypes = []HazardType{
	HazardTypeDisease,
	HazardTypeContamination,
	HazardTypePollution,
	HazardTypeNaturalDisaster,
	HazardTypeClimate,
	HazardTypeWildlife,
	HazardTypeEnvironmental,
}

func ParseHazardType(s string) (HazardType, error) {
	return parseClosed(s, hazardTypes, ErrUnknownHazardType)
}

func (h *HazardType) UnmarshalText(text []byte) error {
	parsed, err := ParseHazardType(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

type Prevalence string

const (
	PrevalenceRare          Prevalence = "rare"
	PrevalenceLow           Prevalence = "low"
	PrevalenceModerate      Prevalence = "moderate"
	PrevalenceCommon        Prevalence = "common"
	PrevalenceVeryCommon    Prevalence = "very common"
	PrevalenceSeasonal      Prevalence = "seasonal"
	PrevalenceUnpredictable Prevalence = "unpredictable"
)

var prevalences = []Prevalence{
	PrevalenceRare,
	PrevalenceLow,
	PrevalenceModerate,
	PrevalenceCommon,
	PrevalenceVeryCommon,
	PrevalenceSeasonal,
	PrevalenceUnpredictable,
}

func ParsePrevalence(s string) (Prevalence, error) {
	return parseClosed(s, prevalences, ErrUnknownPrevalence)
}

func (p *Prevalence) UnmarshalText(text []byte) error {
	parsed, err := ParsePrevalence(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func parseClosed[T ~string](s string, allowed []T, sentinel error) (T, error) {
	for _, v := range allowed {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %q", sentinel, s)
}
