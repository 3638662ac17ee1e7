package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"fakenode/pkg/common"
	"fakenode/pkg/log"
	"fakenode/pkg/monitor"
	"fakenode/pkg/node"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes fixture setup and node status over HTTP so harnesses running
// in another process can script a node.
type Server struct {
	node   *node.FakeNode
	mux    *http.ServeMux
	srv    *http.Server
	serial sync.Locker
}

type lookupFixture struct {
	Region string `json:"region"`
	Row    string `json:"row"`
	Result string `json:"result"`
}

type scanFixture struct {
	Region  string   `json:"region"`
	Results []string `json:"results"`
}

// Backup is the JSON form of every fixture a node holds.
type Backup struct {
	Lookups []lookupFixture `json:"lookups"`
	Scans   []scanFixture   `json:"scans"`
}

type statusResponse struct {
	Server         string            `json:"server"`
	Stopped        bool              `json:"stopped"`
	Aborted        bool              `json:"aborted"`
	OpenScanners   int               `json:"open_scanners"`
	Regions        []string          `json:"regions"`
	Calls          map[string]uint64 `json:"calls"`
	LookupHitRatio float64           `json:"lookup_hit_ratio"`

	Filter map[string]interface{} `json:"filter"`
}

// NewServer builds the HTTP surface for n. Handlers hold serial while they
// touch the node; pass the lock the TCP front end uses. A nil serial gets a
// private mutex.
func NewServer(n *node.FakeNode, serial sync.Locker) *Server {
	if serial == nil {
		serial = &sync.Mutex{}
	}
	s := &Server{node: n, mux: http.NewServeMux(), serial: serial}
	s.srv = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.handle("/api/fixtures/lookup", s.handleLookup)
	s.handle("/api/fixtures/scan", s.handleScan)
	s.handle("/api/fixtures/reset", s.handleReset)
	s.handle("/api/backup", s.handleBackup)
	s.handle("/api/restore", s.handleRestore)
	s.handle("/api/status", s.handleStatus)
	s.handle("/metrics", promhttp.HandlerFor(s.metricsRegistry(), promhttp.HandlerOpts{}).ServeHTTP)
	return s
}

// metricsRegistry gathers the node's call counters and live state. Gauges are
// read while the handler holds serial.
func (s *Server) metricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		monitor.NewCollector(s.node.Stats()),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "fakenode",
			Name:      "open_scanners",
			Help:      "Scanners opened and not yet closed.",
		}, func() float64 {
			return float64(s.node.Scanners().Len())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "fakenode",
			Name:      "stopped",
			Help:      "1 once the node has been stopped.",
		}, func() float64 {
			if s.node.IsStopped() {
				return 1
			}
			return 0
		}),
	)
	return reg
}

func (s *Server) handle(pattern string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		s.serial.Lock()
		defer s.serial.Unlock()
		h(w, r)
	})
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until Shutdown. It returns nil after a clean shutdown, also
// when Shutdown came first.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.API.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
	if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		result, found := s.node.Fixtures().Lookup(common.RegionKey(q.Get("region")), common.RowKey(q.Get("row")))
		writeJSON(w, map[string]interface{}{
			"found":  found,
			"result": string(result),
		})

	case http.MethodPost:
		var req lookupFixture
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid body", http.StatusBadRequest)
			return
		}
		s.node.SetLookupResult(common.RegionKey(req.Region), common.RowKey(req.Row), common.Result(req.Result))
		log.API.Debug().Str("region", req.Region).Str("row", req.Row).Msg("lookup fixture set")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		seq := s.node.Fixtures().ScanSequence(common.RegionKey(r.URL.Query().Get("region")))
		writeJSON(w, map[string]interface{}{
			"results": toStrings(seq),
		})

	case http.MethodPost:
		var req scanFixture
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid body", http.StatusBadRequest)
			return
		}
		s.node.SetScanResults(common.RegionKey(req.Region), toResults(req.Results))
		log.API.Debug().Str("region", req.Region).Int("results", len(req.Results)).Msg("scan fixture set")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.node.Fixtures().Reset()
	log.API.Info().Msg("fixtures reset")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Fixtures Reset Successful"))
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	var b Backup
	store := s.node.Fixtures()
	store.Walk(func(region common.RegionKey, row common.RowKey, result common.Result) bool {
		b.Lookups = append(b.Lookups, lookupFixture{Region: string(region), Row: string(row), Result: string(result)})
		return true
	})
	store.WalkScans(func(region common.RegionKey, results []common.Result) bool {
		b.Scans = append(b.Scans, scanFixture{Region: string(region), Results: toStrings(results)})
		return true
	})
	writeJSON(w, b)
}

// handleRestore replaces every fixture with the posted backup.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var b Backup
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	store := s.node.Fixtures()
	store.Reset()
	for _, l := range b.Lookups {
		store.SetLookupResult(common.RegionKey(l.Region), common.RowKey(l.Row), common.Result(l.Result))
	}
	for _, sc := range b.Scans {
		store.SetScanResults(common.RegionKey(sc.Region), toResults(sc.Results))
	}
	log.API.Info().Int("lookups", len(b.Lookups)).Int("scans", len(b.Scans)).Msg("fixtures restored")
	writeJSON(w, map[string]int{
		"lookups": len(b.Lookups),
		"scans":   len(b.Scans),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	regions := s.node.Fixtures().Regions()
	names := make([]string, 0, len(regions))
	for _, region := range regions {
		names = append(names, string(region))
	}

	stats := s.node.Stats()
	writeJSON(w, statusResponse{
		Server:         s.node.ServerName().String(),
		Stopped:        s.node.IsStopped(),
		Aborted:        s.node.IsAborted(),
		OpenScanners:   s.node.Scanners().Len(),
		Regions:        names,
		Calls:          stats.Snapshot(),
		LookupHitRatio: stats.LookupHitRatio(),
		Filter:         s.node.Fixtures().FilterStats(),
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.API.Warn().Err(err).Msg("encode response")
	}
}

func toStrings(results []common.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = string(r)
	}
	return out
}

func toResults(values []string) []common.Result {
	out := make([]common.Result, len(values))
	for i, v := range values {
		out[i] = common.Result(v)
	}
	return out
}
