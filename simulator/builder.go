package simulator

import (
	"log"
	"os"

	"github.com/rs/xid"
	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/trace"
)

// Builder can build simulators.
type Builder struct {
	cache     *cache.Cache
	reader    *trace.Reader
	recorder  datarecording.DataRecorder
	logger    verboseLogger
	verbose   bool
	traceName string
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		logger: log.New(os.Stderr, "", 0),
	}
}

// WithCache sets the cache to drive.
func (b Builder) WithCache(c *cache.Cache) Builder {
	b.cache = c
	return b
}

// WithReader sets the trace reader to pull records from.
func (b Builder) WithReader(r *trace.Reader) Builder {
	b.reader = r
	return b
}

// WithRecorder sets the data recorder that receives the per-access rows
// and the final summary. Without a recorder nothing is persisted.
func (b Builder) WithRecorder(r datarecording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// WithLogger sets the logger used for verbose per-access output.
func (b Builder) WithLogger(l *log.Logger) Builder {
	b.logger = l
	return b
}

// WithVerbose enables logging the outcome of every access.
func (b Builder) WithVerbose() Builder {
	b.verbose = true
	return b
}

// WithTraceName sets the trace name recorded with the run.
func (b Builder) WithTraceName(name string) Builder {
	b.traceName = name
	return b
}

// Build builds a simulator.
func (b Builder) Build() *Simulator {
	if b.cache == nil {
		panic("simulator requires a cache")
	}

	if b.reader == nil {
		panic("simulator requires a trace reader")
	}

	s := &Simulator{
		id:        xid.New().String(),
		traceName: b.traceName,
		cache:     b.cache,
		reader:    b.reader,
		recorder:  b.recorder,
		logger:    b.logger,
		verbose:   b.verbose,
	}

	if s.recorder != nil {
		s.recorder.CreateTable("simulations", simulationEntry{})
		s.recorder.CreateTable("results", resultEntry{})
		s.recorder.CreateTable("accesses", accessEntry{})
	}

	return s
}
