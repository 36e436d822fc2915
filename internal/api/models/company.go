package models

// CompanyProfile is the operational profile a company declares for ranking.
type CompanyProfile struct {
	UserID         string    `json:"userId"`
	CompanyName    string    `json:"companyName"`
	Sector         string    `json:"sector"`
	TotalDistance  float64   `json:"totalDistance"`
	LoadEfficiency float64   `json:"loadEfficiency"`
	RenewableShare float64   `json:"renewableShare"`
	CreatedAt      Timestamp `json:"createdAt"`
	UpdatedAt      Timestamp `json:"updatedAt"`
}

// CompanyProfileInput is the request body for creating or replacing a profile.
// A fetched CompanyProfile can be sent back as-is: userId, createdAt and
// updatedAt are accepted but ignored, and the owner is always the caller.
type CompanyProfileInput struct {
	CompanyName    string  `json:"companyName" validate:"required,max=200"`
	Sector         string  `json:"sector" validate:"required,max=100"`
	TotalDistance  float64 `json:"totalDistance" validate:"gte=0"`
	LoadEfficiency float64 `json:"loadEfficiency" validate:"gte=0"`
	RenewableShare float64 `json:"renewableShare" validate:"gte=0,lte=1"`

	UserID    any `json:"userId,omitempty" validate:"-"`
	CreatedAt any `json:"createdAt,omitempty" validate:"-"`
	UpdatedAt any `json:"updatedAt,omitempty" validate:"-"`
}
