package model

import "time"

// Impact holds cumulative environmental metrics. Values only grow.
type Impact struct {
	CO2Saved        float64 `json:"co2_saved"`        // kg
	WasteReduced    float64 `json:"waste_reduced"`    // kg
	EnergyConserved float64 `json:"energy_conserved"` // kWh
	CO2Offset       float64 `json:"co2_offset"`       // kg
}

type User struct {
	ID           string    `json:"id"`
	Login        string    `json:"login"`
	Avatar       string    `json:"avatar"`
	PasswordHash []byte    `json:"-"`
	EcoPoints    int       `json:"eco_points"`
	Impact       Impact    `json:"impact"`
	CreatedAt    time.Time `json:"created_at"`
}
