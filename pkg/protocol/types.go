package protocol

import "fakenode/pkg/common"

// RegionInfo describes a region the way administrative calls exchange it.
type RegionInfo struct {
	RegionID  int64
	TableName []byte
	StartKey  common.RowKey
	EndKey    common.RowKey
	Name      common.RegionKey
}

// RootRegionInfo is the catalog root region every node reports when asked
// for region info without hosting real regions.
var RootRegionInfo = RegionInfo{
	RegionID:  0,
	TableName: []byte("-ROOT-"),
	Name:      common.RegionKey("-ROOT-,,0"),
}

type ServerInfo struct {
	ServerName common.ServerName
	WebUIPort  int
}

type RegionOpeningState uint8

const (
	RegionOpened RegionOpeningState = iota
	RegionAlreadyOpened
	RegionFailedOpening
)

// --- data access ---

type GetRequest struct {
	Region common.RegionKey
	Row    common.RowKey
}

type GetResponse struct {
	// Result is empty when nothing is stored under the row.
	Result common.Result
}

type MutateRequest struct {
	Region   common.RegionKey
	Row      common.RowKey
	Mutation []byte
}

type MutateResponse struct {
	Processed bool
}

// Scan carries the parameters of a scan-open call.
type Scan struct {
	StartRow common.RowKey
	StopRow  common.RowKey
	Filter   []byte
}

// ScanRequest either opens a scanner (Scan set) or advances an existing one
// (ScannerID set).
type ScanRequest struct {
	Region       common.RegionKey
	Scan         *Scan
	ScannerID    int64
	NumberOfRows uint32
	CloseScanner bool
}

func (r *ScanRequest) HasScan() bool {
	return r.Scan != nil
}

type ScanResponse struct {
	Results     []common.Result
	ScannerID   int64
	MoreResults bool
}

type LockRowRequest struct {
	Region common.RegionKey
	Rows   []common.RowKey
}

type LockRowResponse struct {
	LockID int64
	TTL    uint32
}

type UnlockRowRequest struct {
	Region common.RegionKey
	LockID int64
}

type UnlockRowResponse struct{}

type FamilyPath struct {
	Family []byte
	Path   string
}

type BulkLoadHFileRequest struct {
	Region      common.RegionKey
	FamilyPaths []FamilyPath
}

type BulkLoadHFileResponse struct {
	Loaded bool
}

type CoprocessorServiceRequest struct {
	Region      common.RegionKey
	ServiceName string
	MethodName  string
	Payload     []byte
}

type CoprocessorServiceResponse struct {
	Value []byte
}

type MultiRequest struct {
	Region  common.RegionKey
	Actions [][]byte
	Atomic  bool
}

type MultiResponse struct {
	Results []common.Result
}

// --- administrative ---

type GetRegionInfoRequest struct {
	Region common.RegionKey
}

type GetRegionInfoResponse struct {
	RegionInfo *RegionInfo
}

type GetStoreFileRequest struct {
	Region   common.RegionKey
	Families [][]byte
}

type GetStoreFileResponse struct {
	StoreFiles []string
}

type GetOnlineRegionRequest struct{}

type GetOnlineRegionResponse struct {
	RegionInfos []RegionInfo
}

type OpenRegionRequest struct {
	Regions []RegionInfo
}

type OpenRegionResponse struct {
	OpeningStates []RegionOpeningState
}

type CloseRegionRequest struct {
	Region            common.RegionKey
	DestinationServer string
}

type CloseRegionResponse struct {
	Closed bool
}

type FlushRegionRequest struct {
	Region common.RegionKey
}

type FlushRegionResponse struct {
	LastFlushTime int64
	Flushed       bool
}

type SplitRegionRequest struct {
	Region     common.RegionKey
	SplitPoint common.RowKey
}

type SplitRegionResponse struct{}

type CompactRegionRequest struct {
	Region common.RegionKey
	Major  bool
}

type CompactRegionResponse struct{}

type ReplicateWALEntryRequest struct {
	Entries [][]byte
}

type ReplicateWALEntryResponse struct{}

type RollWALWriterRequest struct{}

type RollWALWriterResponse struct {
	RegionsToFlush []common.RegionKey
}

type GetServerInfoRequest struct{}

type GetServerInfoResponse struct {
	ServerInfo *ServerInfo
}

type StopServerRequest struct {
	Reason string
}

type StopServerResponse struct{}
