package node

import (
	"context"
	"io/fs"
	"net"

	"fakenode/pkg/common"
	"fakenode/pkg/config"
	"fakenode/pkg/coord"
	"fakenode/pkg/protocol"
)

// Region is a region hosted by a node.
type Region interface {
	Info() protocol.RegionInfo
}

type WAL interface {
	Roll() error
	Close() error
}

type Leases interface {
	CancelLease(name string) error
}

type Accounting interface {
	GlobalMemstoreSize() int64
}

type CompactionRequester interface {
	RequestCompaction(region common.RegionKey, why string)
}

type FlushRequester interface {
	RequestFlush(region common.RegionKey)
}

// CatalogTracker locates the catalog regions.
type CatalogTracker interface {
	RootLocation(ctx context.Context) (common.ServerName, error)
}

type RPCServer interface {
	Addr() net.Addr
}

// Services is what the rest of a worker process reaches through its node:
// identity, lifecycle and the node-local resources.
type Services interface {
	ServerName() common.ServerName
	Config() *config.Config
	Coordinator() coord.Client

	IsStopped() bool
	IsStopping() bool
	IsAborted() bool
	Stop(why string)
	Abort(why string, cause error)

	FileSystem() fs.FS
	WAL() WAL
	Leases() Leases
	Accounting() Accounting
	CompactionRequester() CompactionRequester
	FlushRequester() FlushRequester
	CatalogTracker() CatalogTracker
	RPCServer() RPCServer

	OnlineRegion(encodedName string) Region
	OnlineRegions(table []byte) ([]Region, error)
	AddToOnlineRegions(r Region)
	RemoveFromOnlineRegions(encodedName string, destination *common.ServerName) bool
	RegionsInTransition() map[string]bool
	PostOpenDeployTasks(ctx context.Context, r Region, daughter bool) error
}
