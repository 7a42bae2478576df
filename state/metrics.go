// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/devnet-tools/layerstate/metrics"

var (
	metricOpCount          = metrics.LazyLoadCounterVec("state_op_count", []string{"op"})
	metricLayerDepth       = metrics.LazyLoadGauge("state_layer_depth")
	metricSnapshotCount    = metrics.LazyLoadGauge("state_snapshot_count")
	metricRootDurationMs   = metrics.LazyLoadHistogram("state_root_duration_ms", metrics.Bucket10s)
	metricCommittedAccount = metrics.LazyLoadCounterVec("state_committed_account_count", []string{"type"})
	metricSnapshotEvicted  = metrics.LazyLoadCounter("state_snapshot_evicted_count")
)

func countOp(op string) {
	metricOpCount().AddWithLabel(1, map[string]string{"op": op})
}
