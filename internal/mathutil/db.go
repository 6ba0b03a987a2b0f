package mathutil

import "math"

// DBToLinear converts a decibel amplitude value to linear gain.
func DBToLinear(db float64) float64 {
	return math.Pow(dbDecadeDivisor, db/dbPerDecade)
}

// LinearToDB converts linear amplitude to decibels.
// Values at or below zero return the silence floor rather than -Inf.
func LinearToDB(linear float64) float64 {
	if linear < minLinearForDB {
		return silenceFloorDB
	}
	return dbPerDecade * math.Log10(linear)
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
