package analysis

// ClimateBand is a named temperature range with advice for the operator.
type ClimateBand struct {
	Key   string
	Label string
}

// ClassifyTemperature maps a temperature in Celsius to its risk band.
// Thresholds are fixed and non-overlapping; each boundary belongs to the
// band that starts at it.
func ClassifyTemperature(celsius float64) ClimateBand {
	switch {
	case celsius >= 32:
		return ClimateBand{Key: "heat", Label: "high heat risk"}
	case celsius >= 28:
		return ClimateBand{Key: "warm", Label: "warm, watch for heat stress"}
	case celsius >= 10:
		return ClimateBand{Key: "comfortable", Label: "comfortable"}
	case celsius >= 0:
		return ClimateBand{Key: "cool", Label: "cool, protect from drafts"}
	default:
		return ClimateBand{Key: "cold", Label: "cold stress risk"}
	}
}
