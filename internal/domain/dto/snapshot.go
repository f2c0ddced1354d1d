package dto

import (
	"fmt"
	"time"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/constants"
)

// The source serializes dates as local timestamps without a zone, e.g.
// "2020-03-15T17:00:00". Older dumps used a space separator.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseReportDate converts the textual date field of a raw row into a
// timezone-naive calendar timestamp. A date that matches no known layout
// fails the whole load with ErrDataFormat.
func ParseReportDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", constants.ErrDataFormat, s)
}

// NationRow is a raw national record as published.
type NationRow struct {
	Date                       string `json:"data" validate:"required"`
	Hospitalized               int64  `json:"ricoverati_con_sintomi"`
	IntensiveCare              int64  `json:"terapia_intensiva"`
	CurrentlyPositive          int64  `json:"totale_positivi"`
	VariationCurrentlyPositive int64  `json:"variazione_totale_positivi"`
	NewCases                   int64  `json:"nuovi_positivi"`
	Recovered                  int64  `json:"dimessi_guariti"`
	Deceased                   int64  `json:"deceduti"`
	TotalCases                 int64  `json:"totale_casi"`
	Tests                      int64  `json:"tamponi"`
}

func (r *NationRow) Record() (domain.NationRecord, error) {
	date, err := ParseReportDate(r.Date)
	if err != nil {
		return domain.NationRecord{}, err
	}

	return domain.NationRecord{
		ReportDate:                 date,
		Hospitalized:               r.Hospitalized,
		IntensiveCare:              r.IntensiveCare,
		CurrentlyPositive:          r.CurrentlyPositive,
		VariationCurrentlyPositive: r.VariationCurrentlyPositive,
		NewCases:                   r.NewCases,
		Recovered:                  r.Recovered,
		Deceased:                   r.Deceased,
		TotalCases:                 r.TotalCases,
		Tests:                      r.Tests,
	}, nil
}

// RegionRow is a raw regional record as published.
type RegionRow struct {
	Date                       string `json:"data" validate:"required"`
	RegionCode                 int64  `json:"codice_regione"`
	RegionName                 string `json:"denominazione_regione" validate:"required"`
	Hospitalized               int64  `json:"ricoverati_con_sintomi"`
	IntensiveCare              int64  `json:"terapia_intensiva"`
	CurrentlyPositive          int64  `json:"totale_positivi"`
	VariationCurrentlyPositive int64  `json:"variazione_totale_positivi"`
	NewCases                   int64  `json:"nuovi_positivi"`
	Recovered                  int64  `json:"dimessi_guariti"`
	Deceased                   int64  `json:"deceduti"`
	TotalCases                 int64  `json:"totale_casi"`
	Tests                      int64  `json:"tamponi"`
}

func (r *RegionRow) Record() (domain.RegionRecord, error) {
	date, err := ParseReportDate(r.Date)
	if err != nil {
		return domain.RegionRecord{}, err
	}

	return domain.RegionRecord{
		ReportDate:                 date,
		RegionCode:                 r.RegionCode,
		RegionName:                 r.RegionName,
		Hospitalized:               r.Hospitalized,
		IntensiveCare:              r.IntensiveCare,
		CurrentlyPositive:          r.CurrentlyPositive,
		VariationCurrentlyPositive: r.VariationCurrentlyPositive,
		NewCases:                   r.NewCases,
		Recovered:                  r.Recovered,
		Deceased:                   r.Deceased,
		TotalCases:                 r.TotalCases,
		Tests:                      r.Tests,
	}, nil
}

// ProvinceRow is a raw provincial record as published.
type ProvinceRow struct {
	Date         string `json:"data" validate:"required"`
	RegionCode   int64  `json:"codice_regione"`
	RegionName   string `json:"denominazione_regione" validate:"required"`
	ProvinceCode int64  `json:"codice_provincia"`
	ProvinceName string `json:"denominazione_provincia" validate:"required"`
	ProvinceAbbr string `json:"sigla_provincia"`
	TotalCases   int64  `json:"totale_casi"`
}

func (r *ProvinceRow) Record() (domain.ProvinceRecord, error) {
	date, err := ParseReportDate(r.Date)
	if err != nil {
		return domain.ProvinceRecord{}, err
	}

	return domain.ProvinceRecord{
		ReportDate:   date,
		RegionCode:   r.RegionCode,
		RegionName:   r.RegionName,
		ProvinceCode: r.ProvinceCode,
		ProvinceName: r.ProvinceName,
		ProvinceAbbr: r.ProvinceAbbr,
		TotalCases:   r.TotalCases,
	}, nil
}

// Snapshot is the parsed content of the three source datasets plus the
// fingerprint of their raw payloads.
type Snapshot struct {
	Nation    []domain.NationRecord
	Regions   []domain.RegionRecord
	Provinces []domain.ProvinceRecord

	Fingerprint string
}

// ReportDate returns the date of the most recent record in the nation
// series, the snapshot's report date.
func (s *Snapshot) ReportDate() (time.Time, error) {
	if len(s.Nation) == 0 {
		return time.Time{}, fmt.Errorf("%w: empty nation series", constants.ErrDataFormat)
	}
	return s.Nation[len(s.Nation)-1].ReportDate, nil
}
