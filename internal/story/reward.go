package story

// RewardTier is a progress milestone tied to cumulative turn count. Tiers are
// cumulative: reaching a higher tier implies all lower ones, but only the
// highest is reported.
type RewardTier struct {
	Name      string  `json:"tier"`
	Threshold int     `json:"threshold"`
	Reward    float64 `json:"reward"`
	Emoji     string  `json:"emoji"`
	Title     string  `json:"title"`
}

// rewardTiers is ordered ascending by threshold.
var rewardTiers = []RewardTier{
	{Name: "bronze", Threshold: 3, Reward: 0.05, Emoji: "\U0001F949", Title: "Chronicle Keeper"},
	{Name: "silver", Threshold: 7, Reward: 0.1, Emoji: "\U0001F948", Title: "Tale Weaver"},
	{Name: "gold", Threshold: 15, Reward: 0.25, Emoji: "\U0001F947", Title: "Legend Scribe"},
	{Name: "legendary", Threshold: 25, Reward: 0.5, Emoji: "\U0001F451", Title: "Master Archivist"},
}

// CurrentTier returns the highest tier whose threshold the turn count has
// reached, or false before the first tier.
func CurrentTier(turnCount int) (RewardTier, bool) {
	for i := len(rewardTiers) - 1; i >= 0; i-- {
		if turnCount >= rewardTiers[i].Threshold {
			return rewardTiers[i], true
		}
	}
	return RewardTier{}, false
}

// NextTier returns the tier following the named one, or false for the
// highest tier (or an unknown name).
func NextTier(name string) (RewardTier, bool) {
	for i, tier := range rewardTiers {
		if tier.Name == name {
			if i+1 < len(rewardTiers) {
				return rewardTiers[i+1], true
			}
			return RewardTier{}, false
		}
	}
	return RewardTier{}, false
}
