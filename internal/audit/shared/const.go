package shared

import "math"

const (
	// FloorDb is the lowest level any analyzer reports. Levels below it,
	// including true digital silence, are clamped here instead of -Inf.
	FloorDb = -120.0

	// ClipLevel is the normalized amplitude treated as full scale when
	// counting clipped samples. Slightly below 1.0 to catch 16-bit
	// full-scale codes after normalization.
	ClipLevel = 0.999
)

// Db converts a linear amplitude to decibels, clamped at FloorDb.
func Db(amplitude float64) float64 {
	if amplitude <= 0 {
		return FloorDb
	}

	db := 20 * math.Log10(amplitude)
	if db < FloorDb {
		return FloorDb
	}

	return db
}

// PowerDb converts a linear power to decibels, clamped at FloorDb.
func PowerDb(power float64) float64 {
	if power <= 0 {
		return FloorDb
	}

	db := 10 * math.Log10(power)
	if db < FloorDb {
		return FloorDb
	}

	return db
}
