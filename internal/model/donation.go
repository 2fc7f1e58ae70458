package model

import "time"

type Donation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Points    int       `json:"points"`
	Trees     int       `json:"trees"`
	DonatedAt time.Time `json:"donated_at"`
}
