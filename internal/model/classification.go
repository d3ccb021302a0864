// Package model defines the core domain models used throughout the application.
package model

import "time"

// ClassificationRecord is the persisted outcome of resolving a product name
// to a risk tier and its offending ingredients. Records are append-only.
type ClassificationRecord struct {
	ObservedAt            time.Time `json:"observedAt"`
	Name                  string    `json:"name"`
	RiskTier              RiskTier  `json:"risk"`
	ImageURL              string    `json:"image,omitempty"`
	HighRiskIngredients   []string  `json:"high"`
	MediumRiskIngredients []string  `json:"med"`
	ID                    int64     `json:"id"`
}

// AlternativeQuery describes a search for products safer than CurrentRiskTier.
type AlternativeQuery struct {
	ProductName     string
	Category        string
	CurrentRiskTier RiskTier
}
