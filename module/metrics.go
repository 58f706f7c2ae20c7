package module

// RewardsMetrics encapsulates the metrics collectors for the rewards
// accounting engine.
type RewardsMetrics interface {
	// ParticipationRecorded is called once for every successfully recorded
	// participation report.
	ParticipationRecorded(targetContract string)

	// RewardsDistributed is called after a successful distribution, with the
	// number of epochs settled and the number of workers paid.
	RewardsDistributed(targetContract string, epochs uint64, workers int)

	// PoolFunded is called whenever a rewards pool is topped up.
	PoolFunded(targetContract string)
}
