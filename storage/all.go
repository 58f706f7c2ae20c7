package storage

// All includes all the storage modules
type All struct {
	RewardsParams       RewardsParams
	ParticipationEvents ParticipationEvents
	EpochTallies        EpochTallies
	RewardsPools        RewardsPools
	Watermarks          DistributionWatermarks
}
