package domain

// Product represents a reusable catalog entry for quick line-item insertion.
// Stock is only meaningful when TrackStock is true and is mutated exclusively
// by the stock adjustment that runs on invoice creation.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       float64 `json:"stock"`
	TrackStock  bool    `json:"trackStock"`
	Image       string  `json:"image,omitempty"`
}
