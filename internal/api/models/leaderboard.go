package models

// LeaderboardEntry is one ranked company.
type LeaderboardEntry struct {
	UserID         string  `json:"userId"`
	CompanyName    string  `json:"companyName"`
	Sector         string  `json:"sector"`
	GreenScore     float64 `json:"greenScore"`
	CO2Emissions   float64 `json:"co2Emissions"`
	TotalDistance  float64 `json:"totalDistance"`
	LoadEfficiency float64 `json:"loadEfficiency"`
	RenewableShare float64 `json:"renewableShare"`
	Rank           int     `json:"rank"`
}
