// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/avalanchego/utils/wrappers"
)

const metricsNamespace = "memechain"

type metrics struct {
	txsApplied     prometheus.Counter
	txsRejected    prometheus.Counter
	blocksExecuted prometheus.Counter
	blocksFailed   prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		txsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "txs_applied",
			Help:      "Transactions applied to state",
		}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "txs_rejected",
			Help:      "Transactions rejected during block execution",
		}),
		blocksExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "blocks_executed",
			Help:      "Blocks executed to completion",
		}),
		blocksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "blocks_failed",
			Help:      "Block executions aborted by a fault",
		}),
	}
	if registerer == nil {
		return m, nil
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.txsApplied),
		registerer.Register(m.txsRejected),
		registerer.Register(m.blocksExecuted),
		registerer.Register(m.blocksFailed),
	)
	return m, errs.Err
}
