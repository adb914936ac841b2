package models

// StatsOverview is the subset of a /<resource>/stats payload the dashboard uses.
type StatsOverview struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}
