// Package node implements a fake worker node for master- and client-side
// tests. It answers the whole admin and data protocol but only lookups and
// scans do anything: they replay fixtures set up by the test. Every other
// request gets an empty response and has no side effects, which tells the
// harness the path ran but is not supported here.
//
// Fixtures and scanners are plain in-memory containers owned by one FakeNode.
// Nothing serializes access to them: set fixtures before requests start and
// do not drive one scanner from several goroutines.
package node

import (
	"context"
	"fmt"
	"io/fs"
	"sync/atomic"
	"time"

	"fakenode/pkg/common"
	"fakenode/pkg/config"
	"fakenode/pkg/coord"
	"fakenode/pkg/fixture"
	"fakenode/pkg/log"
	"fakenode/pkg/monitor"
	"fakenode/pkg/protocol"
	"fakenode/pkg/scanner"
)

// AbortError is the panic value of FakeNode.Abort.
type AbortError struct {
	Server common.ServerName
	Why    string
	Cause  error
}

func (e *AbortError) Error() string {
	msg := e.Server.String() + ": " + e.Why
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *AbortError) Unwrap() error {
	return e.Cause
}

type FakeNode struct {
	protocol.UnimplementedAdminService

	name     common.ServerName
	conf     *config.Config
	coord    coord.Client
	store    *fixture.Store
	scanners *scanner.Registry
	stats    *monitor.CallStats

	stopped atomic.Bool
	aborted atomic.Bool

	scannerOpts []scanner.Option
}

type Option func(*FakeNode)

// WithStore serves fixtures from s instead of a fresh store.
func WithStore(s *fixture.Store) Option {
	return func(n *FakeNode) {
		n.store = s
	}
}

// WithScannerSource replaces the random scanner handle generator.
func WithScannerSource(src func() int64) Option {
	return func(n *FakeNode) {
		n.scannerOpts = append(n.scannerOpts, scanner.WithSource(src))
	}
}

// New builds a node and registers it with the coordination service under its
// server name.
func New(ctx context.Context, conf *config.Config, name common.ServerName, cc coord.Client, opts ...Option) (*FakeNode, error) {
	n := &FakeNode{
		name:  name,
		conf:  conf,
		coord: cc,
		stats: monitor.NewCallStats(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.store == nil {
		n.store = fixture.NewStore()
	}
	n.scanners = scanner.NewRegistry(n.store, n.scannerOpts...)

	if err := cc.Register(ctx, name.String()); err != nil {
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	log.Node.Info().Str("server", name.String()).Msg("fake node registered")
	return n, nil
}

// NameFromConfig builds the server name configured for a node. A zero start
// code is replaced by the current time, as a real node does on startup.
func NameFromConfig(conf *config.Config) common.ServerName {
	code := conf.Node.StartCode
	if code == 0 {
		code = time.Now().UnixMilli()
	}
	return common.ServerName{Host: conf.Node.Host, Port: conf.Node.Port, StartCode: code}
}

// SetLookupResult fills the data Get answers from.
func (n *FakeNode) SetLookupResult(region common.RegionKey, row common.RowKey, result common.Result) {
	n.store.SetLookupResult(region, row, result)
}

// SetScanResults sets what scanners on region reply as they are advanced.
func (n *FakeNode) SetScanResults(region common.RegionKey, results []common.Result) {
	n.store.SetScanResults(region, results)
}

func (n *FakeNode) Fixtures() *fixture.Store {
	return n.store
}

func (n *FakeNode) Scanners() *scanner.Registry {
	return n.scanners
}

func (n *FakeNode) Stats() *monitor.CallStats {
	return n.stats
}

func (n *FakeNode) ServerName() common.ServerName {
	return n.name
}

func (n *FakeNode) Config() *config.Config {
	return n.conf
}

func (n *FakeNode) Coordinator() coord.Client {
	return n.coord
}

func (n *FakeNode) IsStopped() bool {
	return n.stopped.Load()
}

func (n *FakeNode) IsStopping() bool {
	return false
}

func (n *FakeNode) IsAborted() bool {
	return n.aborted.Load()
}

// Stop releases the coordination handle. Requests keep being answered
// afterwards; nothing rejects them.
func (n *FakeNode) Stop(why string) {
	if n.stopped.Swap(true) {
		return
	}
	if err := n.coord.Close(); err != nil {
		log.Node.Warn().Err(err).Str("server", n.name.String()).Msg("close coordination handle")
	}
	log.Node.Info().Str("server", n.name.String()).Str("why", why).Msg("fake node stopped")
}

// Abort never returns. It panics with an *AbortError so that a harness can
// detect production code trying to kill this node.
func (n *FakeNode) Abort(why string, cause error) {
	n.aborted.Store(true)
	log.Node.Error().Err(cause).Str("server", n.name.String()).Str("why", why).Msg("fake node aborted")
	panic(&AbortError{Server: n.name, Why: why, Cause: cause})
}

// ProtocolVersion and ProtocolSignature carry no versioning information.
func (n *FakeNode) ProtocolVersion(name string, clientVersion int64) int64 {
	return 0
}

func (n *FakeNode) ProtocolSignature(name string, clientVersion int64, methodsHash int) []byte {
	return nil
}

func (n *FakeNode) FileSystem() fs.FS                        { return nil }
func (n *FakeNode) WAL() WAL                                 { return nil }
func (n *FakeNode) Leases() Leases                           { return nil }
func (n *FakeNode) Accounting() Accounting                   { return nil }
func (n *FakeNode) CompactionRequester() CompactionRequester { return nil }
func (n *FakeNode) FlushRequester() FlushRequester           { return nil }
func (n *FakeNode) CatalogTracker() CatalogTracker           { return nil }
func (n *FakeNode) RPCServer() RPCServer                     { return nil }

func (n *FakeNode) OnlineRegion(encodedName string) Region {
	return nil
}

func (n *FakeNode) OnlineRegions(table []byte) ([]Region, error) {
	return nil, nil
}

func (n *FakeNode) AddToOnlineRegions(r Region) {}

func (n *FakeNode) RemoveFromOnlineRegions(encodedName string, destination *common.ServerName) bool {
	return false
}

func (n *FakeNode) RegionsInTransition() map[string]bool {
	return nil
}

func (n *FakeNode) PostOpenDeployTasks(ctx context.Context, r Region, daughter bool) error {
	return nil
}

var (
	_ Services         = (*FakeNode)(nil)
	_ protocol.Service = (*FakeNode)(nil)
)
