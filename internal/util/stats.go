package util

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"
)

// ──────────────────────────────────────────────────────────────────────────────
// Global stats singleton
// ──────────────────────────────────────────────────────────────────────────────

// Stats is the process-wide netplay traffic counter.
var Stats = &stats{}

type stats struct {
	FramesSent     atomic.Int64 // input frames sent since process start
	FramesReceived atomic.Int64 // input frames received since process start
	PacketsDropped atomic.Int64 // packets dropped as protocol errors
	BytesSent      atomic.Int64 // encoded packet bytes handed to the transport
	BytesReceived  atomic.Int64 // encoded packet bytes taken from the transport
}

func (s *stats) AddFrameSent()     { s.FramesSent.Add(1) }
func (s *stats) AddFrameReceived() { s.FramesReceived.Add(1) }
func (s *stats) AddDropped()       { s.PacketsDropped.Add(1) }
func (s *stats) AddSent(n int)     { s.BytesSent.Add(int64(n)) }
func (s *stats) AddReceived(n int) { s.BytesReceived.Add(int64(n)) }

// ──────────────────────────────────────────────────────────────────────────────
// Periodic reporter
// ──────────────────────────────────────────────────────────────────────────────

// StartStatsReporter launches a goroutine that logs netplay statistics on the
// given interval. It stops when ctx is cancelled.
func StartStatsReporter(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var prevSent, prevRecv, prevDropped int64
		secs := interval.Seconds()

		for {
			select {
			case <-ticker.C:
				sent := Stats.FramesSent.Load()
				recv := Stats.FramesReceived.Load()
				dropped := Stats.PacketsDropped.Load()

				txS := float64(sent-prevSent) / secs
				rxS := float64(recv-prevRecv) / secs
				newDropped := dropped - prevDropped

				if txS > 0 || rxS > 0 || newDropped > 0 {
					pterm.DefaultLogger.Info(formatStats(txS, rxS, newDropped))
				}

				prevSent = sent
				prevRecv = recv
				prevDropped = dropped

			case <-ctx.Done():
				return
			}
		}
	}()
}

// formatStats returns a formatted string of the current stats for display in
// the logger.
func formatStats(txS, rxS float64, dropped int64) string {
	return fmt.Sprintf("Tx: %5.1f f/s | Rx: %5.1f f/s | Dropped: %d", txS, rxS, dropped)
}
