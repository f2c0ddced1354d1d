// Package render holds the message formatting shared by the notification
// composer and the conversational front-end. It depends only on the domain
// package so neither side has to import the other.
package render

import (
	"fmt"
	"strings"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
)

// Point is one labelled value of an ascii chart.
type Point struct {
	Label string
	Value int64
}

// Chart renders a horizontal ascii bar chart in a monospace block. Bars are
// scaled between the min and max values using eighth-block characters.
func Chart(title string, data []Point) string {
	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")

	if len(data) == 0 {
		return b.String()
	}

	minValue, maxValue := data[0].Value, data[0].Value
	for _, p := range data {
		if p.Value < minValue {
			minValue = p.Value
		}
		if p.Value > maxValue {
			maxValue = p.Value
		}
	}

	increment := float64(maxValue-minValue) / 12
	if increment == 0 {
		increment = 1
	}

	for _, p := range data {
		scaled := int(float64(p.Value-minValue) * 8 / increment)
		chunks, remainder := scaled/8, scaled%8

		bar := strings.Repeat("█", chunks)
		if remainder > 0 {
			// U+2588 FULL BLOCK through U+258F LEFT ONE EIGHTH BLOCK
			bar += string(rune('█') + rune(8-remainder))
		}
		if bar == "" {
			bar = "▏"
		}

		b.WriteString(fmt.Sprintf("%7d %-13s | %6s\n", p.Value, bar, p.Label))
	}

	return b.String()
}

// TableRow is one line of a totals table.
type TableRow struct {
	Label string
	Total int64
	Diff  int64
}

// Table renders rows as aligned "label: total (+diff)" monospace lines.
// Labels longer than ten characters are truncated with a dot.
func Table(rows []TableRow) string {
	var b strings.Builder
	for _, r := range rows {
		label := r.Label
		if len([]rune(label)) > 10 {
			label = string([]rune(label)[:10]) + "."
		}
		b.WriteString(fmt.Sprintf("\n`%11s: %7d (%+6d)`", label, r.Total, r.Diff))
	}
	return b.String()
}

// DailySummary renders the national/regional daily outline (currently
// positive, recovered, deceased, total cases with 24h variations) followed
// by the currently-positive trend chart. The window must be in ascending
// date order with at least two records.
func DailySummary(window []domain.NationRecord) string {
	if len(window) < 2 {
		return ""
	}
	today := window[len(window)-1]
	yesterday := window[len(window)-2]

	var b strings.Builder
	outline := []TableRow{
		{Label: "Positivi", Total: today.CurrentlyPositive, Diff: today.VariationCurrentlyPositive},
		{Label: "Guariti", Total: today.Recovered, Diff: today.Recovered - yesterday.Recovered},
		{Label: "Deceduti", Total: today.Deceased, Diff: today.Deceased - yesterday.Deceased},
	}
	b.WriteString(Table(outline))
	b.WriteString("\n`_____________________________`")
	b.WriteString(Table([]TableRow{{Label: "Tot. Casi", Total: today.TotalCases, Diff: today.NewCases}}))
	b.WriteString("\n\n_(Tra parentesi le variazioni nelle ultime 24h)_")

	points := make([]Point, 0, len(window))
	for _, d := range window {
		points = append(points, Point{
			Label: d.ReportDate.Format("02-Jan"),
			Value: d.CurrentlyPositive,
		})
	}
	chart := Chart(fmt.Sprintf("Ultimi %d giorni", len(window)), points)
	b.WriteString(fmt.Sprintf("\n\n\n\n*Trend Attualmente Positivi*\n\n`%s`", chart))

	return b.String()
}

var trendIcons = map[domain.Trend][2]string{
	domain.TrendWorseningAccelerating: {"🔴", "↗️"},
	domain.TrendWorseningSteady:       {"🔴", "➡️"},
	domain.TrendWorseningDecelerating: {"🔴", "↘️"},
	domain.TrendImprovingAccelerating: {"🟢", "↗️"},
	domain.TrendImprovingSteady:       {"🟢", "➡️"},
	domain.TrendImprovingDecelerating: {"🟢", "↘️"},
}

// TrendIcons returns the two icons for a weekly aggregate's delta pair, or
// an empty string when not enough weeks exist to derive them.
func TrendIcons(delta, deltaOfDelta *int64) string {
	if delta == nil || deltaOfDelta == nil {
		return ""
	}
	icons := trendIcons[domain.ClassifyTrend(*delta, *deltaOfDelta)]
	return icons[0] + " " + icons[1]
}
