package request

type Address struct {
	Name      string `validate:"required" json:"name"`
	Line1     string `validate:"required" json:"line1"`
	Line2     string `json:"line2,omitempty"`
	City      string `validate:"required" json:"city"`
	County    string `json:"county,omitempty"`
	Postcode  string `validate:"required" json:"postcode"`
	Country   string `validate:"required" json:"country"`
	IsDefault bool   `json:"isDefault"`
}
