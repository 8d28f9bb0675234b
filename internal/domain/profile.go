package domain

// BusinessProfile holds the issuing business's details and invoice defaults.
// Currency is a display symbol, not an ISO code; it is stamped onto each
// invoice at creation.
type BusinessProfile struct {
	Name             string  `json:"name"`
	Email            string  `json:"email,omitempty"`
	Phone            string  `json:"phone,omitempty"`
	Website          string  `json:"website,omitempty"`
	Address          string  `json:"address,omitempty"`
	TaxNumber        string  `json:"taxNumber,omitempty"`
	Currency         string  `json:"currency"`
	DefaultTaxRate   float64 `json:"defaultTaxRate,omitempty"`
	DefaultHandling  float64 `json:"defaultHandling,omitempty"`
	DefaultPackaging float64 `json:"defaultPackaging,omitempty"`
}

// DefaultProfile returns the profile seeded on first run
func DefaultProfile() BusinessProfile {
	return BusinessProfile{
		Name:     "My Business",
		Currency: "$",
	}
}
