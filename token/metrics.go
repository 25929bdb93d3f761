// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import "github.com/vechain/ftledger/metrics"

var (
	metricOpCount          = metrics.LazyLoadCounterVec("op_count", []string{"op", "result"})
	metricOpDuration       = metrics.LazyLoadHistogramVec("op_duration_us", []string{"op"}, metrics.BucketMicros)
	metricEventCount       = metrics.LazyLoadCounterVec("event_count", []string{"kind"})
	metricPendingTransfers = metrics.LazyLoadGauge("pending_transfers")
	metricNotifyDuration   = metrics.LazyLoadHistogramVec("notify_duration_ms", []string{"result"}, metrics.Bucket10s)
	metricRefundFailed     = metrics.LazyLoadCounter("refund_failed_count")
)
