package profiler

import (
	"log"
	"runtime"
	"time"
)

// Sample is the per-frame scene work reported to the profiler.
type Sample struct {
	Objects int
	Drawn   int
	Lights  int
	Rebinds int
	Passes  int
}

// Report is one interval's worth of statistics.
type Report struct {
	FPS         float64
	Frames      int
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64

	// per-frame averages of the recorded samples
	Drawn   float64
	Rebinds float64
	Lights  float64
	Objects int
	Passes  int
}

// Profiler tracks frame rate, memory and scene statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	drawn, rebinds, lights int
	last                   Sample
	lastReport             Report
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - options: functional options, the update interval defaults to 1 second
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Record adds one frame's scene sample to the running interval.
//
// Parameters:
//   - s: the sample of the frame just drawn
func (p *Profiler) Record(s Sample) {
	p.drawn += s.Drawn
	p.rebinds += s.Rebinds
	p.lights += s.Lights
	p.last = s
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include FPS, heap usage, allocation rate, GC count and pause times, and the per-frame
// averages of the samples recorded since the last report.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	r := Report{
		FPS:     float64(p.frameCount) / max(elapsed.Seconds(), 1e-9),
		Frames:  p.frameCount,
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:   float64(p.memStats.Sys) / 1024 / 1024,
		GCCount: p.memStats.NumGC,
		Drawn:   float64(p.drawn) / float64(p.frameCount),
		Rebinds: float64(p.rebinds) / float64(p.frameCount),
		Lights:  float64(p.lights) / float64(p.frameCount),
		Objects: p.last.Objects,
		Passes:  p.last.Passes,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	r.AllocRateMB = float64(allocDelta) / 1024 / 1024 / max(elapsed.Seconds(), 1e-9)

	// PauseNs is a circular buffer of the last 256 GC pauses
	if gcCount := p.memStats.NumGC; gcCount > 0 {
		r.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			r.MaxPauseUs = max(r.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		r.FPS, r.HeapMB, r.AllocRateMB, r.GCCount, r.LastPauseUs, r.MaxPauseUs, r.SysMB)
	log.Printf("[Profiler] Objects: %d | Drawn: %.1f | Rebinds: %.1f | Lights: %.1f | Passes: %d",
		r.Objects, r.Drawn, r.Rebinds, r.Lights, r.Passes)

	p.frameCount = 0
	p.drawn, p.rebinds, p.lights = 0, 0, 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.lastReport = r
	return true
}

// LastReport returns the statistics logged by the most recent reporting Tick.
//
// Returns:
//   - Report: the last report, zero before the first
func (p *Profiler) LastReport() Report {
	return p.lastReport
}
