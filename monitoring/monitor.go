// Package monitoring exposes the live state of a running simulation over
// HTTP, so that long trace replays can be observed and profiled.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/simulator"
)

// A Simulation provides the live state that a Monitor serves.
type Simulation interface {
	Geometry() cache.Geometry
	Stats() cache.Stats
	Progress() simulator.Progress
}

// Monitor turns a simulation into a web server and allows external
// observation of its progress.
type Monitor struct {
	simulation  Simulation
	portNumber  int
	openBrowser bool
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithDashboardOpening makes the monitor open its status page in the
// default browser once the server is up.
func (m *Monitor) WithDashboardOpening() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterSimulation registers the simulation to be monitored.
func (m *Monitor) RegisterSimulation(s Simulation) {
	m.simulation = s
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/geometry", m.geometry)
	r.HandleFunc("/api/stats", m.stats)
	r.HandleFunc("/api/progress", m.progress)
	r.HandleFunc("/api/inspect", m.inspect)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/", m.serveIndex)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	if m.openBrowser {
		err := browser.OpenURL(url)
		if err != nil {
			log.Printf("cannot open dashboard: %v", err)
		}
	}
}

func (m *Monitor) serveIndex(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, `<html><body><h1>cachesim</h1><ul>
<li><a href="/api/geometry">geometry</a></li>
<li><a href="/api/stats">stats</a></li>
<li><a href="/api/progress">progress</a></li>
<li><a href="/api/inspect">inspect</a></li>
<li><a href="/api/resource">resource</a></li>
<li><a href="/api/profile">profile</a></li>
</ul></body></html>`)
}

func (m *Monitor) geometry(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, m.simulation.Geometry())
}

func (m *Monitor) stats(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, m.simulation.Stats())
}

func (m *Monitor) progress(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, m.simulation.Progress())
}

func (m *Monitor) writeJSON(w http.ResponseWriter, value any) {
	bytes, err := json.Marshal(value)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) inspect(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.simulation)
	serializer.SetMaxDepth(2)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := process.MemoryInfo()
	dieOnErr(err)

	m.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	m.writeJSON(w, prof)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
