package risk

// Level bands a risk score into a discrete severity tier. It is always
// derived from the clamped score, never stored independently.
type Level string

const (
	LevelLow      Level = "LOW"      // 0-30
	LevelMedium   Level = "MEDIUM"   // 31-60
	LevelHigh     Level = "HIGH"     // 61-80
	LevelCritical Level = "CRITICAL" // 81-100
)

// LevelForScore maps a clamped score onto its level band.
func LevelForScore(score int) Level {
	switch {
	case score <= 30:
		return LevelLow
	case score <= 60:
		return LevelMedium
	case score <= 80:
		return LevelHigh
	default:
		return LevelCritical
	}
}
