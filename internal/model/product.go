package model

type Product struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Image           string  `json:"image"`
	Price           float64 `json:"price"`
	EcoScore        string  `json:"eco_score"`        // A..E
	CarbonFootprint float64 `json:"carbon_footprint"` // grams of CO2 per unit
	Material        string  `json:"material"`         // Compostable, Recyclable, Mixed
	Description     string  `json:"description"`
}

// CartLine is a product with a quantity of at least one.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}
