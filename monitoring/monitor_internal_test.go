package monitoring

import (
	"encoding/json"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/simulator"
)

type stubSimulation struct {
	geometry cache.Geometry
	stats    cache.Stats
	progress simulator.Progress
}

func (s *stubSimulation) Geometry() cache.Geometry {
	return s.geometry
}

func (s *stubSimulation) Stats() cache.Stats {
	return s.stats
}

func (s *stubSimulation) Progress() simulator.Progress {
	return s.progress
}

var _ = Describe("Monitor", func() {
	var (
		m   *Monitor
		sim *stubSimulation
	)

	BeforeEach(func() {
		sim = &stubSimulation{
			geometry: cache.Geometry{
				SetIndexBits:    4,
				BlockOffsetBits: 6,
				NumWays:         2,
			},
			stats: cache.Stats{Hits: 10, Misses: 4, Evictions: 1},
			progress: simulator.Progress{
				StartTime: time.Now(),
				Processed: 14,
			},
		}

		m = NewMonitor()
		m.RegisterSimulation(sim)
	})

	It("should serve the counters", func() {
		w := httptest.NewRecorder()

		m.stats(w, httptest.NewRequest("GET", "/api/stats", nil))

		var stats cache.Stats
		Expect(json.Unmarshal(w.Body.Bytes(), &stats)).To(Succeed())
		Expect(stats).To(Equal(sim.stats))
	})

	It("should serve the geometry", func() {
		w := httptest.NewRecorder()

		m.geometry(w, httptest.NewRequest("GET", "/api/geometry", nil))

		var geometry cache.Geometry
		Expect(json.Unmarshal(w.Body.Bytes(), &geometry)).To(Succeed())
		Expect(geometry).To(Equal(sim.geometry))
	})

	It("should serve the progress", func() {
		w := httptest.NewRecorder()

		m.progress(w, httptest.NewRequest("GET", "/api/progress", nil))

		var progress simulator.Progress
		Expect(json.Unmarshal(w.Body.Bytes(), &progress)).To(Succeed())
		Expect(progress.Processed).To(Equal(uint64(14)))
	})

	It("should refuse privileged port numbers", func() {
		m = m.WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})
})
