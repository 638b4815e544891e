package domain

// ProductAttributes describes a retail product as far as scoring is concerned.
// It is built fresh for every scoring call and never mutated afterwards.
type ProductAttributes struct {
	Barcode     string   `json:"barcode,omitempty"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	Packaging   []string `json:"packaging,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`

	// CarbonFootprint is the declared footprint in kg CO2e, nil when unknown
	CarbonFootprint *float64 `json:"carbonFootprint,omitempty"`

	Organic    *bool `json:"organic,omitempty"`
	Local      *bool `json:"local,omitempty"`
	FairTrade  *bool `json:"fairTrade,omitempty"`
	Recyclable *bool `json:"recyclable,omitempty"`
}

// IsOrganic reports whether the organic flag is set to true
func (p *ProductAttributes) IsOrganic() bool {
	return isTrue(p.Organic)
}

// IsLocal reports whether the local flag is set to true
func (p *ProductAttributes) IsLocal() bool {
	return isTrue(p.Local)
}

// IsFairTrade reports whether the fair-trade flag is set to true
func (p *ProductAttributes) IsFairTrade() bool {
	return isTrue(p.FairTrade)
}

// NotRecyclable reports whether the product was explicitly declared not recyclable.
// An unknown recyclable flag is not the same as false.
func (p *ProductAttributes) NotRecyclable() bool {
	return p.Recyclable != nil && !*p.Recyclable
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

// Bool returns a pointer to b, for building attributes literals
func Bool(b bool) *bool {
	return &b
}

// Float returns a pointer to f, for building attributes literals
func Float(f float64) *float64 {
	return &f
}
