package model

type DeliveryOption string

const (
	DeliveryStandard DeliveryOption = "standard"
	DeliveryEco      DeliveryOption = "eco"
)

func (d DeliveryOption) Valid() bool {
	return d == DeliveryStandard || d == DeliveryEco
}

// Order is the checkout submission handed to the order processor.
// It is consumed once and never stored.
type Order struct {
	Lines          []CartLine     `json:"lines"`
	Delivery       DeliveryOption `json:"delivery"`
	CarbonOffsetKg float64        `json:"carbon_offset_kg"`
}

// Receipt reports the outcome of a processed order.
type Receipt struct {
	Points      int     `json:"points"`
	Bonus       int     `json:"bonus"`
	EcoDelivery bool    `json:"eco_delivery"`
	CO2Saved    float64 `json:"co2_saved"`
	CO2Offset   float64 `json:"co2_offset"`
	Credited    bool    `json:"credited"`
}
