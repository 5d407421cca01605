package models

import "time"

type Country struct {
	ID                   string            `json:"id" yaml:"id"`
	Name                 string            `json:"name" yaml:"name"`
	Flag                 string            `json:"flag" yaml:"flag"`
	Region               string            `json:"region" yaml:"region"`
	RiskLevel            Severity          `json:"risk_level" yaml:"risk_level"`
	LastUpdated          time.Time         `json:"last_updated" yaml:"last_updated"`
	HealthHazards        []CountryHazard   `json:"health_hazards" yaml:"health_hazards"`
	EnvironmentalHazards []CountryHazard   `json:"environmental_hazards" yaml:"environmental_hazards"`
	TravelTips           []string          `json:"travel_tips" yaml:"travel_tips"`
	EmergencyNumbers     map[string]string `json:"emergency_numbers" yaml:"emergency_numbers"`
}

// Hazards returns health hazards followed by environmental hazards.
func (c Country) Hazards() []CountryHazard {
	out := make([]CountryHazard, 0, len(c.HealthHazards)+len(c.EnvironmentalHazards))
	out = append(out, c.HealthHazards...)
	return append(out, c.EnvironmentalHazards...)
}

type CountryHazard struct {
	ID                string     `json:"id" yaml:"id"`
	Type              HazardType `json:"type" yaml:"type"`
	Title             string     `json:"title" yaml:"title"`
	Description       string     `json:"description" yaml:"description"`
	Severity          Severity   `json:"severity" yaml:"severity"`
	Prevalence        Prevalence `json:"prevalence" yaml:"prevalence"`
	Seasonality       string     `json:"seasonality" yaml:"seasonality"`
	Prevention        []string   `json:"prevention" yaml:"prevention"`
	Symptoms          []string   `json:"symptoms,omitempty" yaml:"symptoms"`
	Treatment         string     `json:"treatment,omitempty" yaml:"treatment"`
	EmergencyContacts []string   `json:"emergency_contacts" yaml:"emergency_contacts"`
}

// DiseasePrediction is a static outbreak forecast for one country.
type DiseasePrediction struct {
	ID                string    `json:"id" yaml:"id"`
	CountryID         string    `json:"country_id" yaml:"country_id"`
	CountryName       string    `json:"country_name" yaml:"country_name"`
	CountryFlag       string    `json:"country_flag" yaml:"country_flag"`
	DiseaseName       string    `json:"disease_name" yaml:"disease_name"`
	RiskPercentage    float64   `json:"risk_percentage" yaml:"risk_percentage"`
	RiskLevel         Severity  `json:"risk_level" yaml:"risk_level"`
	Timeframe         string    `json:"timeframe" yaml:"timeframe"`
	LastUpdated       time.Time `json:"last_updated" yaml:"last_updated"`
	Description       string    `json:"description" yaml:"description"`
	Factors           []string  `json:"factors" yaml:"factors"`
	Prevention        []string  `json:"prevention" yaml:"prevention"`
	Symptoms          []string  `json:"symptoms" yaml:"symptoms"`
	EmergencyContacts []string  `json:"emergency_contacts" yaml:"emergency_contacts"`
	AffectedRegions   []string  `json:"affected_regions" yaml:"affected_regions"`
	PeakRiskPeriod    string    `json:"peak_risk_period" yaml:"peak_risk_period"`
}

type SafetyGuide struct {
	ID               string   `json:"id" yaml:"id"`
	Category         string   `json:"category" yaml:"category"`
	Title            string   `json:"title" yaml:"title"`
	Content          string   `json:"content" yaml:"content"`
	Tips             []string `json:"tips" yaml:"tips"`
	EmergencyActions []string `json:"emergency_actions" yaml:"emergency_actions"`
}
