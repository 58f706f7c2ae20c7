package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lattice-foundation/lattice-go/module"
)

const (
	namespaceRewards = "lattice"
	subsystemRewards = "rewards"

	LabelContract = "contract"
)

type RewardsCollector struct {
	participations  *prometheus.CounterVec
	epochsSettled   *prometheus.CounterVec
	workersRewarded *prometheus.CounterVec
	poolTopUps      *prometheus.CounterVec
}

var _ module.RewardsMetrics = (*RewardsCollector)(nil)

func NewRewardsCollector() *RewardsCollector {

	rc := &RewardsCollector{

		participations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "participations_recorded_total",
			Namespace: namespaceRewards,
			Subsystem: subsystemRewards,
			Help:      "the number of participation reports recorded",
		}, []string{LabelContract}),

		epochsSettled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "epochs_settled_total",
			Namespace: namespaceRewards,
			Subsystem: subsystemRewards,
			Help:      "the number of epochs settled by reward distribution",
		}, []string{LabelContract}),

		workersRewarded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "workers_rewarded_total",
			Namespace: namespaceRewards,
			Subsystem: subsystemRewards,
			Help:      "the number of worker payouts produced by reward distribution",
		}, []string{LabelContract}),

		poolTopUps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "pool_top_ups_total",
			Namespace: namespaceRewards,
			Subsystem: subsystemRewards,
			Help:      "the number of times a rewards pool was funded",
		}, []string{LabelContract}),
	}

	return rc
}

func (rc *RewardsCollector) ParticipationRecorded(targetContract string) {
	rc.participations.With(prometheus.Labels{LabelContract: targetContract}).Inc()
}

func (rc *RewardsCollector) RewardsDistributed(targetContract string, epochs uint64, workers int) {
	rc.epochsSettled.With(prometheus.Labels{LabelContract: targetContract}).Add(float64(epochs))
	rc.workersRewarded.With(prometheus.Labels{LabelContract: targetContract}).Add(float64(workers))
}

func (rc *RewardsCollector) PoolFunded(targetContract string) {
	rc.poolTopUps.With(prometheus.Labels{LabelContract: targetContract}).Inc()
}
