// Package render lays out a prediction as a header plus a fixed grid of
// labeled metric cards, the way the query client presents results.
package render

import (
	"fmt"
	"io"
	"strconv"

	airquality "github.com/Fareedh-7/airquality-go"
)

// Unavailable is shown in place of absent or non-finite metric values.
const Unavailable = "Unavailable"

// Card is one labeled metric in the grid.
type Card struct {
	Label string
	Value string
}

// Number formats a metric value to a fixed number of decimal places, or
// Unavailable when the value is absent or non-finite.
func Number(v *float64, decimals int) string {
	if !airquality.IsFinite(v) {
		return Unavailable
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

// Text formats an optional string value, substituting Unavailable.
func Text(v *string) string {
	if v == nil || *v == "" {
		return Unavailable
	}
	return *v
}

// Header formats the result header: city, date, and coordinates to four
// decimal places.
func Header(p *airquality.Prediction) string {
	return fmt.Sprintf("%s (%s) %.4f, %.4f", p.City, p.Date, p.Latitude, p.Longitude)
}

// Cards returns the metric grid for a prediction. Fine-grained ratios
// (NO2, AOD) carry six decimal places; coarser measurements carry two.
func Cards(p *airquality.Prediction) []Card {
	if p.Variant() == airquality.VariantSatellite {
		cards := []Card{
			{Label: "NO2 Average", Value: Number(p.NO2Avg, 6)},
			{Label: "MODIS AOD", Value: Number(p.ModisAOD, 6)},
			{Label: "Granule", Value: Text(p.ModisGranuleID)},
		}
		if p.ModisError != nil && *p.ModisError != "" {
			cards = append(cards, Card{Label: "MODIS Error", Value: *p.ModisError})
		}
		return cards
	}

	return []Card{
		{Label: "NO2 Average", Value: Number(p.NO2Avg, 6)},
		{Label: "NO2 Predicted", Value: Number(p.NO2Predicted, 6)},
		{Label: "PM2.5", Value: Number(p.PM25, 2)},
		{Label: "PM10", Value: Number(p.PM10, 2)},
		{Label: "SO2", Value: Number(p.SO2, 2)},
		{Label: "CO", Value: Number(p.CO, 2)},
		{Label: "O3", Value: Number(p.O3, 2)},
		{Label: "Temperature", Value: Number(p.Temperature, 2)},
		{Label: "Humidity", Value: Number(p.Humidity, 2)},
		{Label: "Wind Speed", Value: Number(p.WindSpeed, 2)},
	}
}

// Write renders the header and metric grid as text.
func Write(w io.Writer, p *airquality.Prediction) error {
	if _, err := fmt.Fprintln(w, Header(p)); err != nil {
		return err
	}
	for _, card := range Cards(p) {
		if _, err := fmt.Fprintf(w, "  %-14s %s\n", card.Label, card.Value); err != nil {
			return err
		}
	}
	return nil
}
