package config

import "time"

// Moderation tuning. Kept as package constants rather than env so that the
// server and the admin CLI can never disagree on them.
var ComplaintWeights = map[string]int{
	"spam":  10,
	"abuse": 25,
	"scam":  40,
	"other": 5,
}

const (
	// BanThresholdReputation triggers a ban once reputation falls below it.
	BanThresholdReputation = 30
	// BanThresholdFrequency is the number of reports inside BanFrequencyWindow
	// that triggers a ban regardless of reputation.
	BanThresholdFrequency = 5
	BanFrequencyWindow    = 24 * time.Hour

	BanLevel1Duration = 24 * time.Hour
	BanLevel2Duration = 7 * 24 * time.Hour
	BanLevel3Duration = 30 * 24 * time.Hour
)
