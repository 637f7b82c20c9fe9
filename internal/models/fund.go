package models

type Fund struct {
	FundID         string          `yaml:"id" json:"id"`
	Name           string          `yaml:"name" json:"name"`
	Type           string          `yaml:"type" json:"type"`
	Vintage        int             `yaml:"vintage" json:"vintage"`
	Status         string          `yaml:"status" json:"status"`
	Strategy       string          `yaml:"strategy" json:"strategy"`
	Geography      string          `yaml:"geography" json:"geography"`
	Commitment     float64         `yaml:"commitment" json:"commitment"`
	Called         float64         `yaml:"called" json:"called"`
	Distributed    float64         `yaml:"distributed" json:"distributed"`
	CurrentValue   float64         `yaml:"currentValue" json:"currentValue"`
	IRR            float64         `yaml:"irr" json:"irr"`
	Multiple       float64         `yaml:"multiple" json:"multiple"`
	GeneralPartner string          `yaml:"generalPartner" json:"generalPartner"`
	FundManager    string          `yaml:"fundManager" json:"fundManager"`
	Description    string          `yaml:"description" json:"description"`
	KeyPersonnel   []FundPersonnel `yaml:"keyPersonnel" json:"keyPersonnel,omitempty"`
}

type FundPersonnel struct {
	Name  string `yaml:"name" json:"name"`
	Role  string `yaml:"role" json:"role"`
	Email string `yaml:"email" json:"email,omitempty"`
}
