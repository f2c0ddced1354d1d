package domain

import "time"

// NationArea is the area key under which the national weekly rollup is
// stored. The label is wire-visible: the front-end shows it as-is.
const NationArea = "Italia 🇮🇹"

// WeeklyAggregate is the per-(area, ISO year, ISO week) rollup of new cases.
// Delta and DeltaOfDelta are derived at query time against the one and two
// preceding weeks; they stay nil when not enough weeks exist.
type WeeklyAggregate struct {
	Area      string    `db:"area" json:"area"`
	ISOYear   int       `db:"iso_year" json:"iso_year"`
	ISOWeek   int       `db:"iso_week" json:"iso_week"`
	NewCases  int64     `db:"new_cases" json:"new_cases"`
	DayCount  int       `db:"day_count" json:"day_count"`
	WeekStart time.Time `db:"week_start" json:"week_start"`
	WeekEnd   time.Time `db:"week_end" json:"week_end"`

	Delta        *int64 `db:"-" json:"delta,omitempty"`
	DeltaOfDelta *int64 `db:"-" json:"delta_of_delta,omitempty"`
}

// Complete reports whether the week has all seven days of data.
func (w *WeeklyAggregate) Complete() bool {
	return w.DayCount == 7
}

// RegionWeekly pairs a region with its most recent weekly aggregate.
type RegionWeekly struct {
	Region string          `json:"region"`
	Week   WeeklyAggregate `json:"week"`
}

// MacroAreaSummary groups the latest weekly aggregates of the regions in one
// macro-area.
type MacroAreaSummary struct {
	Name    string         `json:"name"`
	Regions []RegionWeekly `json:"regions"`
}

// WeeklySummary is the condensed weekly trend report: the national rollup
// plus one block per macro-area.
type WeeklySummary struct {
	Nation WeeklyAggregate    `json:"nation"`
	Areas  []MacroAreaSummary `json:"areas"`
}

// MacroArea is a fixed partition entry of the regions.
type MacroArea struct {
	Name    string
	Regions []string
}

// MacroAreas is the hardcoded macro-area partition used by the weekly
// summary. Static configuration, not derived from data.
var MacroAreas = []MacroArea{
	{
		Name: "Nord",
		Regions: []string{
			"Emilia-Romagna", "Friuli Venezia Giulia", "Liguria", "Lombardia",
			"P.A. Bolzano", "P.A. Trento", "Piemonte", "Valle d'Aosta", "Veneto",
		},
	},
	{
		Name:    "Centro",
		Regions: []string{"Lazio", "Marche", "Toscana", "Umbria"},
	},
	{
		Name: "Sud e Isole",
		Regions: []string{
			"Abruzzo", "Basilicata", "Calabria", "Campania",
			"Molise", "Puglia", "Sardegna", "Sicilia",
		},
	},
}
