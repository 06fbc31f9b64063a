package gps

// FixQuality is the receiver-reported confidence category from a GGA
// sentence (field 6).
type FixQuality int

const (
	QualityNoFix      FixQuality = 0
	QualityGPS        FixQuality = 1
	QualityDGPS       FixQuality = 2
	QualityPPS        FixQuality = 3
	QualityRTKFixed   FixQuality = 4
	QualityRTKFloat   FixQuality = 5
	QualityEstimated  FixQuality = 6
	QualityManual     FixQuality = 7
	QualitySimulation FixQuality = 8
)

// Actionable reports whether a fix of this quality is worth storing.
// No-fix, dead-reckoning, manual and simulated solutions are dropped
// before they ever reach fusion.
func (q FixQuality) Actionable() bool {
	switch q {
	case QualityNoFix, QualityEstimated, QualityManual, QualitySimulation:
		return false
	}
	return true
}

// HighAccuracy reports whether this is an RTK-grade solution.
func (q FixQuality) HighAccuracy() bool {
	return q == QualityRTKFixed || q == QualityRTKFloat
}

func (q FixQuality) String() string {
	switch q {
	case QualityNoFix:
		return "no-fix"
	case QualityGPS:
		return "gps"
	case QualityDGPS:
		return "dgps"
	case QualityPPS:
		return "pps"
	case QualityRTKFixed:
		return "rtk-fixed"
	case QualityRTKFloat:
		return "rtk-float"
	case QualityEstimated:
		return "estimated"
	case QualityManual:
		return "manual"
	case QualitySimulation:
		return "simulation"
	}
	return "unknown"
}
