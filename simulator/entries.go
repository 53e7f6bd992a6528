package simulator

// simulationEntry describes one simulation run in the database.
type simulationEntry struct {
	ID              string
	TraceFile       string
	SetIndexBits    int
	BlockOffsetBits int
	NumWays         int
}

// resultEntry holds the final counters of one run.
type resultEntry struct {
	ID        string
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// accessEntry holds the outcome of one non-instruction access.
type accessEntry struct {
	SimulationID string
	Seq          uint64
	Kind         string
	Address      uint64
	Size         int
	Outcome      string
}
