// Package simulator drives a cache model with the records of a memory
// access trace.
package simulator

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/trace"
)

// Progress reports how far a simulation has advanced.
type Progress struct {
	StartTime time.Time `json:"start_time"`
	Processed uint64    `json:"processed"`
	Skipped   uint64    `json:"skipped"`
}

// A Simulator applies every record of a trace to a cache, one record at a
// time, in trace order. The cache itself is only ever touched by Run;
// Stats and Progress serve snapshots that are safe to read from other
// goroutines while the simulation is running.
type Simulator struct {
	id        string
	traceName string

	cache    *cache.Cache
	reader   *trace.Reader
	recorder datarecording.DataRecorder
	logger   verboseLogger
	verbose  bool

	mu       sync.Mutex
	progress Progress
	stats    cache.Stats
}

type verboseLogger interface {
	Printf(format string, v ...any)
}

// ID returns the unique identifier of this simulation run.
func (s *Simulator) ID() string {
	return s.id
}

// Geometry returns the geometry of the simulated cache.
func (s *Simulator) Geometry() cache.Geometry {
	return s.cache.Geometry()
}

// Stats returns a snapshot of the counters.
func (s *Simulator) Stats() cache.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

// Progress returns a snapshot of the simulation progress.
func (s *Simulator) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.progress
}

// Run replays the whole trace. It returns once the trace is exhausted or
// the underlying stream fails.
func (s *Simulator) Run() error {
	s.mu.Lock()
	s.progress.StartTime = time.Now()
	s.mu.Unlock()

	if s.recorder != nil {
		geometry := s.cache.Geometry()
		s.recorder.InsertData("simulations", simulationEntry{
			ID:              s.id,
			TraceFile:       s.traceName,
			SetIndexBits:    geometry.SetIndexBits,
			BlockOffsetBits: geometry.BlockOffsetBits,
			NumWays:         geometry.NumWays,
		})
	}

	var seq uint64

	for {
		access, err := s.reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading trace: %w", err)
		}

		result := s.cache.Access(access)
		seq++

		s.report(seq, access, result)

		s.mu.Lock()
		s.progress.Processed = seq
		s.progress.Skipped = uint64(s.reader.Skipped())
		s.stats = s.cache.Stats()
		s.mu.Unlock()
	}

	if s.recorder != nil {
		stats := s.cache.Stats()
		s.recorder.InsertData("results", resultEntry{
			ID:        s.id,
			Hits:      stats.Hits,
			Misses:    stats.Misses,
			Evictions: stats.Evictions,
		})
		s.recorder.Flush()
	}

	return nil
}

func (s *Simulator) report(
	seq uint64,
	access trace.Access,
	result cache.AccessResult,
) {
	if access.Kind == trace.Instruction {
		return
	}

	outcome := outcomeString(access, result)

	if s.verbose {
		s.logger.Printf("%s %x,%d %s",
			access.Kind, access.Address, access.Size, outcome)
	}

	if s.recorder != nil {
		s.recorder.InsertData("accesses", accessEntry{
			SimulationID: s.id,
			Seq:          seq,
			Kind:         access.Kind.String(),
			Address:      access.Address,
			Size:         access.Size,
			Outcome:      outcome,
		})
	}
}

func outcomeString(access trace.Access, result cache.AccessResult) string {
	var outcome string

	switch {
	case result.Hit:
		outcome = "hit"
	case result.Eviction:
		outcome = "miss eviction"
	default:
		outcome = "miss"
	}

	// The second half of a modify always hits.
	if access.Kind == trace.Modify {
		outcome += " hit"
	}

	return outcome
}
