package metrics

type NoopCollector struct{}

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) ParticipationRecorded(targetContract string)                          {}
func (nc *NoopCollector) RewardsDistributed(targetContract string, epochs uint64, workers int) {}
func (nc *NoopCollector) PoolFunded(targetContract string)                                     {}
