package store

import (
	"time"

	"github.com/google/uuid"

	"ecoshop/internal/model"
)

const defaultAvatar = "https://images.pexels.com/photos/220453/pexels-photo-220453.jpeg?auto=compress&cs=tinysrgb&w=200"

// DefaultAvatar is assigned to newly registered users.
func DefaultAvatar() string { return defaultAvatar }

var demoUsers = []model.User{
	{Login: "Alex Green", Avatar: defaultAvatar, EcoPoints: 1250,
		Impact: model.Impact{CO2Saved: 12.5, WasteReduced: 4.2, EnergyConserved: 30, CO2Offset: 5.0}},
	{Login: "Beatrice Eco", Avatar: "https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg?auto=compress&cs=tinysrgb&w=200", EcoPoints: 2100,
		Impact: model.Impact{CO2Saved: 25.1, WasteReduced: 8.5, EnergyConserved: 65, CO2Offset: 12.1}},
	{Login: "Carlos Verde", Avatar: "https://images.pexels.com/photos/1043473/pexels-photo-1043473.jpeg?auto=compress&cs=tinysrgb&w=200", EcoPoints: 1850,
		Impact: model.Impact{CO2Saved: 20.3, WasteReduced: 6.1, EnergyConserved: 55, CO2Offset: 8.5}},
	{Login: "Diana Soil", Avatar: "https://images.pexels.com/photos/1065084/pexels-photo-1065084.jpeg?auto=compress&cs=tinysrgb&w=200", EcoPoints: 950,
		Impact: model.Impact{CO2Saved: 9.8, WasteReduced: 3.2, EnergyConserved: 25, CO2Offset: 2.3}},
	{Login: "Ethan Bloom", Avatar: "https://images.pexels.com/photos/91227/pexels-photo-91227.jpeg?auto=compress&cs=tinysrgb&w=200", EcoPoints: 2300,
		Impact: model.Impact{CO2Saved: 28.0, WasteReduced: 9.0, EnergyConserved: 72, CO2Offset: 15.0}},
	{Login: "Fiona Rivers", Avatar: "https://images.pexels.com/photos/1587009/pexels-photo-1587009.jpeg?auto=compress&cs=tinysrgb&w=200", EcoPoints: 1500,
		Impact: model.Impact{CO2Saved: 17.5, WasteReduced: 5.5, EnergyConserved: 48, CO2Offset: 6.7}},
}

var initialCommunity = model.Impact{
	CO2Saved:        12450,
	WasteReduced:    3120,
	EnergyConserved: 8560,
	CO2Offset:       2570,
}

// Seed loads the demo roster and the starting community totals. All demo
// users share passwordHash.
func Seed(s *Store, passwordHash []byte) error {
	return s.Update(func(snap *Snapshot) error {
		now := time.Now()
		for _, u := range demoUsers {
			u.ID = uuid.NewString()
			u.PasswordHash = passwordHash
			u.CreatedAt = now
			if err := snap.PutUser(u); err != nil {
				return err
			}
		}
		snap.Community = initialCommunity
		return nil
	})
}
