package domain

import "time"

// Series identifies one of the three daily datasets.
type Series string

const (
	SeriesNation    Series = "nation"
	SeriesRegions   Series = "regions"
	SeriesProvinces Series = "provinces"
)

// PendingProvince is the pseudo-province the source uses for cases not yet
// assigned to a province. It is excluded from the all-provinces ranking.
const PendingProvince = "In fase di definizione/aggiornamento"

// NationRecord is one day of the national series.
type NationRecord struct {
	ReportDate                 time.Time `db:"report_date" json:"data"`
	Hospitalized               int64     `db:"hospitalized" json:"ricoverati_con_sintomi"`
	IntensiveCare              int64     `db:"intensive_care" json:"terapia_intensiva"`
	CurrentlyPositive          int64     `db:"currently_positive" json:"totale_positivi"`
	VariationCurrentlyPositive int64     `db:"variation_currently_positive" json:"variazione_totale_positivi"`
	NewCases                   int64     `db:"new_cases" json:"nuovi_positivi"`
	Recovered                  int64     `db:"recovered" json:"dimessi_guariti"`
	Deceased                   int64     `db:"deceased" json:"deceduti"`
	TotalCases                 int64     `db:"total_cases" json:"totale_casi"`
	Tests                      int64     `db:"tests" json:"tamponi"`
}

// RegionRecord is one day of one region.
type RegionRecord struct {
	ReportDate                 time.Time `db:"report_date" json:"data"`
	RegionCode                 int64     `db:"region_code" json:"codice_regione"`
	RegionName                 string    `db:"region_name" json:"denominazione_regione"`
	Hospitalized               int64     `db:"hospitalized" json:"ricoverati_con_sintomi"`
	IntensiveCare              int64     `db:"intensive_care" json:"terapia_intensiva"`
	CurrentlyPositive          int64     `db:"currently_positive" json:"totale_positivi"`
	VariationCurrentlyPositive int64     `db:"variation_currently_positive" json:"variazione_totale_positivi"`
	NewCases                   int64     `db:"new_cases" json:"nuovi_positivi"`
	Recovered                  int64     `db:"recovered" json:"dimessi_guariti"`
	Deceased                   int64     `db:"deceased" json:"deceduti"`
	TotalCases                 int64     `db:"total_cases" json:"totale_casi"`
	Tests                      int64     `db:"tests" json:"tamponi"`
}

// ProvinceRecord is one day of one province. The source publishes only the
// cumulative case count at province granularity.
type ProvinceRecord struct {
	ReportDate   time.Time `db:"report_date" json:"data"`
	RegionCode   int64     `db:"region_code" json:"codice_regione"`
	RegionName   string    `db:"region_name" json:"denominazione_regione"`
	ProvinceCode int64     `db:"province_code" json:"codice_provincia"`
	ProvinceName string    `db:"province_name" json:"denominazione_provincia"`
	ProvinceAbbr string    `db:"province_abbr" json:"sigla_provincia"`
	TotalCases   int64     `db:"total_cases" json:"totale_casi"`
}

// AreaDelta is one row of the today-vs-yesterday view: the latest total for
// an area (region or province) and its increase over the previous day.
type AreaDelta struct {
	Name       string    `json:"name"`
	ReportDate time.Time `json:"report_date"`
	TotalCases int64     `json:"total_cases"`
	Delta      int64     `json:"delta"`
}

// ProvincePair is a distinct (region, province) couple, used to rebuild the
// per-region selection menus.
type ProvincePair struct {
	RegionName   string `db:"region_name"`
	ProvinceName string `db:"province_name"`
}

// SelectionMenu is a precomputed sorted list of valid names driving a choice
// interface: "italy" maps to region names, each region name to its provinces.
type SelectionMenu struct {
	Name   string   `json:"menu_name"`
	Values []string `json:"values"`
}

// MenuItaly is the name of the menu listing all regions.
const MenuItaly = "italy"

// Subscriber is a chat registered for push notifications.
type Subscriber struct {
	ChatID    int64     `db:"chat_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Message is a composed notification payload, markdown with embedded
// monospace blocks.
type Message struct {
	Text string
}

// ErrorResponse is the API error body.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
