package gps

// FixRecord is one completed, validated GPS fix suitable for JSON,
// MQTT and storage. SpeedKmh and Bearing stay pointers because a VTG
// sentence may carry empty speed/course fields on a receiver that has
// no motion solution yet.
type FixRecord struct {
	Coordinate
	Date         string     `json:"date"` // local civil date, e.g. "2025-12-06"
	Time         string     `json:"time"` // local civil time, e.g. "12:34:56"
	SpeedKmh     *float64   `json:"speed_kmh"`
	Bearing      *float64   `json:"bearing,omitempty"`
	Quality      FixQuality `json:"fix_quality"`
	Satellites   int        `json:"num_satellites"`
	HighAccuracy bool       `json:"high_accuracy"`
}

// Validate re-checks the coordinate domain right before persistence.
// Construction already guarantees the range; this second check catches
// a record that went bad through any merge path.
func (r FixRecord) Validate() error {
	if !IsValidLatitude(r.Latitude) {
		return &RangeError{Axis: "latitude", Value: r.Latitude}
	}
	if !IsValidLongitude(r.Longitude) {
		return &RangeError{Axis: "longitude", Value: r.Longitude}
	}
	return nil
}

// Timestamp renders the record's local date and time as an ISO-8601
// combined datetime, e.g. "2024-01-01T17:30:00".
func (r FixRecord) Timestamp() string {
	return r.Date + "T" + r.Time
}
