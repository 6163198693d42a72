package core

import "fmt"

// FrameStats is the performance overlay: it counts frames between calls to
// Tick and publishes an averaged Summary once per Interval seconds.
type FrameStats struct {
	Interval float64 // seconds between published summaries

	started    bool
	last       float64
	windowFrom float64
	frames     int
	worstFrame float64

	summary FrameSummary
}

// FrameSummary is one published sample of the overlay.
type FrameSummary struct {
	FPS          float64
	AvgFrameMs   float64
	WorstFrameMs float64
	Frames       int
}

func (s FrameSummary) String() string {
	return fmt.Sprintf("%.0f FPS  %.2f ms (worst %.2f ms)", s.FPS, s.AvgFrameMs, s.WorstFrameMs)
}

func NewFrameStats() *FrameStats {
	return &FrameStats{Interval: 1.0}
}

// Tick records a frame finishing at now (seconds). It returns the frame's
// delta time and reports whether a new summary was published.
func (fs *FrameStats) Tick(now float64) (dt float64, published bool) {
	if !fs.started {
		fs.started = true
		fs.last = now
		fs.windowFrom = now
		return 0, false
	}

	dt = now - fs.last
	fs.last = now
	fs.frames++
	if dt > fs.worstFrame {
		fs.worstFrame = dt
	}

	elapsed := now - fs.windowFrom
	if elapsed < fs.Interval || elapsed <= 0 {
		return dt, false
	}

	fs.summary = FrameSummary{
		FPS:          float64(fs.frames) / elapsed,
		AvgFrameMs:   elapsed / float64(fs.frames) * 1000,
		WorstFrameMs: fs.worstFrame * 1000,
		Frames:       fs.frames,
	}
	fs.windowFrom = now
	fs.frames = 0
	fs.worstFrame = 0
	return dt, true
}

// Summary returns the most recently published sample.
func (fs *FrameStats) Summary() FrameSummary {
	return fs.summary
}
