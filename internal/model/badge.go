package model

type Badge struct {
	Name           string `json:"name"`
	PointsRequired int    `json:"points_required"`
	Description    string `json:"description"`
}
