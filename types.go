package airquality

import "math"

// Variant identifies which response shape the prediction endpoint returned.
// The backend serves both shapes under the same endpoint name, so the
// schema is a union keyed by which fields are present rather than a fixed
// record.
type Variant string

const (
	// VariantPollutant is the full pollutant and weather view.
	VariantPollutant Variant = "pollutant"
	// VariantSatellite is the satellite optical-depth (MODIS AOD) view.
	VariantSatellite Variant = "satellite"
	// VariantUnknown is reported when neither set of fields is present.
	VariantUnknown Variant = ""
)

// Prediction is the result returned for a queried city. Header fields are
// always present; metric fields are pointers because each appears only in
// one of the two response variants and may be null on the wire.
type Prediction struct {
	City      string  `json:"city"`
	Date      string  `json:"date"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	NO2Avg       *float64 `json:"no2_avg,omitempty"`
	NO2Predicted *float64 `json:"no2_predicted,omitempty"`
	PM25         *float64 `json:"pm25,omitempty"`
	PM10         *float64 `json:"pm10,omitempty"`
	SO2          *float64 `json:"so2,omitempty"`
	CO           *float64 `json:"co,omitempty"`
	O3           *float64 `json:"o3,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	Humidity     *float64 `json:"humidity,omitempty"`
	WindSpeed    *float64 `json:"wind_speed,omitempty"`

	ModisAOD       *float64 `json:"modis_aod,omitempty"`
	ModisGranuleID *string  `json:"modis_granule_id,omitempty"`
	ModisError     *string  `json:"modis_error,omitempty"`
}

// Variant reports which response shape this prediction carries.
func (p *Prediction) Variant() Variant {
	switch {
	case p.ModisAOD != nil || p.ModisGranuleID != nil || p.ModisError != nil:
		return VariantSatellite
	case p.NO2Predicted != nil || p.PM25 != nil || p.PM10 != nil ||
		p.SO2 != nil || p.CO != nil || p.O3 != nil:
		return VariantPollutant
	default:
		return VariantUnknown
	}
}

// IsFinite reports whether a metric value is present and finite.
// Absent and non-finite values are rendered as unavailable.
func IsFinite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// citiesResponse is the body of GET /cities. A missing field decodes to a
// nil slice, which callers treat as an empty list.
type citiesResponse struct {
	Cities []string `json:"cities"`
}

// errorResponse is the JSON error body the backend attaches to non-2xx
// statuses.
type errorResponse struct {
	Detail string `json:"detail"`
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status string `json:"status"`
}
