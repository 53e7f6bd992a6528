package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/simulator"
	"github.com/sarchlab/cachesim/trace"
)

var rootCmd = &cobra.Command{
	Use:   "cachesim -s <num> -E <num> -b <num> -t <file>",
	Short: "Simulate a set-associative LRU cache against a memory trace.",
	Long: `cachesim replays a valgrind-lackey style memory trace against a ` +
		`set-associative cache with LRU replacement and reports the number ` +
		`of hits, misses, and evictions the cache would produce.`,
	Run: runSimulation,
}

var (
	setIndexBits    int
	numWays         int
	blockOffsetBits int
	traceFile       string
	verbose         bool
	dbPath          string
	withMonitor     bool
	monitorPort     int
	openDashboard   bool
)

func init() {
	// A .env file can provide defaults for the non-geometry flags.
	_ = godotenv.Load()

	flags := rootCmd.Flags()
	flags.IntVarP(&setIndexBits, "set-index-bits", "s", 0,
		"number of set index bits")
	flags.IntVarP(&numWays, "lines-per-set", "E", 0,
		"number of lines per set")
	flags.IntVarP(&blockOffsetBits, "block-offset-bits", "b", 0,
		"number of block offset bits")
	flags.StringVarP(&traceFile, "trace", "t", "",
		"trace file to replay")
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"print the outcome of every access")
	flags.StringVar(&dbPath, "db", os.Getenv("CACHESIM_DB"),
		"path of the result database, without extension")
	flags.BoolVar(&withMonitor, "monitor", false,
		"serve live simulation state over HTTP")
	flags.IntVar(&monitorPort,
		"monitor-port", envInt("CACHESIM_MONITOR_PORT", 0),
		"port of the monitoring server, 0 picks a random port")
	flags.BoolVar(&openDashboard, "open-dashboard", false,
		"open the monitoring page in a browser")
}

func runSimulation(cmd *cobra.Command, _ []string) {
	mustHaveValidFlags(cmd)

	traceReader, closeTrace := openTrace()
	defer closeTrace()

	c := cache.MakeBuilder().
		WithSetIndexBits(setIndexBits).
		WithBlockOffsetBits(blockOffsetBits).
		WithNumWays(numWays).
		Build()

	recorder := datarecording.New(dbPath)

	builder := simulator.MakeBuilder().
		WithCache(c).
		WithReader(traceReader).
		WithRecorder(recorder).
		WithTraceName(traceFile)
	if verbose {
		builder = builder.WithVerbose()
	}
	s := builder.Build()

	if withMonitor {
		startMonitor(s)
	}

	err := s.Run()
	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	stats := s.Stats()
	fmt.Printf("hits:%d misses:%d evictions:%d\n",
		stats.Hits, stats.Misses, stats.Evictions)

	atexit.Exit(0)
}

func openTrace() (*trace.Reader, func()) {
	f, err := os.Open(traceFile)
	if err != nil {
		log.Fatalf("cannot open trace file: %v", err)
	}

	reader := trace.NewReader(f, log.New(os.Stderr, "", 0))

	return reader, func() { f.Close() }
}

func startMonitor(s *simulator.Simulator) {
	m := monitoring.NewMonitor().WithPortNumber(monitorPort)
	if openDashboard {
		m = m.WithDashboardOpening()
	}

	m.RegisterSimulation(s)
	m.StartServer()
}

func mustHaveValidFlags(cmd *cobra.Command) {
	if setIndexBits < 1 || blockOffsetBits < 1 ||
		numWays < 1 || traceFile == "" {
		fmt.Fprintln(os.Stderr,
			"cachesim: missing or invalid required argument")
		_ = cmd.Usage()
		atexit.Exit(1)
	}

	if setIndexBits+blockOffsetBits > 64 {
		fmt.Fprintln(os.Stderr,
			"cachesim: set index and block offset bits exceed the "+
				"64-bit address width")
		atexit.Exit(1)
	}
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return n
}
