package analytics

import (
	"time"
)

// ProductRevenue is one entry of the top-products ranking.
type ProductRevenue struct {
	Product string  `json:"product"`
	Revenue float64 `json:"revenue"`
}

// RegionRevenue is one region's revenue total and its share of the overall
// total. Percent is 0 for every region when total revenue is exactly zero.
type RegionRevenue struct {
	Region  string  `json:"region"`
	Revenue float64 `json:"revenue"`
	Percent float64 `json:"percent"`
}

// MonthlyPoint is one month of the revenue series. GrowthRate is nil for
// the first month and whenever the previous month's revenue was zero.
type MonthlyPoint struct {
	Month      string   `json:"month"` // YYYY-MM
	Revenue    float64  `json:"revenue"`
	GrowthRate *float64 `json:"growth_rate"`
}

// ProductMargin is one product's profit metrics. Margin is nil when the
// product's revenue sums to zero.
type ProductMargin struct {
	Product string   `json:"product"`
	Revenue float64  `json:"revenue"`
	Cost    float64  `json:"cost"`
	Profit  float64  `json:"profit"`
	Margin  *float64 `json:"margin"` // percent
}

// ProfitReport carries per-product and aggregate profit margins.
type ProfitReport struct {
	Products        []ProductMargin `json:"products"`
	TotalRevenue    float64         `json:"total_revenue"`
	TotalCost       float64         `json:"total_cost"`
	AggregateMargin *float64        `json:"aggregate_margin"` // percent, nil on zero revenue
}

// SummaryStats is the descriptive-statistics record for the cleaned table.
type SummaryStats struct {
	Transactions   int       `json:"transactions"`
	TotalRevenue   float64   `json:"total_revenue"`
	MeanRevenue    float64   `json:"mean_revenue"`
	UniqueProducts int       `json:"unique_products"`
	UniqueRegions  int       `json:"unique_regions"`
	FirstDate      time.Time `json:"first_date"`
	LastDate       time.Time `json:"last_date"`
}

// Bundle is the full KPI output consumed by the exporter and the HTTP
// layer. Profit is nil when the table carries no cost column.
type Bundle struct {
	TotalRevenue float64          `json:"total_revenue"`
	TopProducts  []ProductRevenue `json:"top_products"`
	Regions      []RegionRevenue  `json:"regions"`
	Monthly      []MonthlyPoint   `json:"monthly"`
	Profit       *ProfitReport    `json:"profit,omitempty"`
	Summary      SummaryStats     `json:"summary"`
	GeneratedAt  time.Time        `json:"generated_at"`
}
