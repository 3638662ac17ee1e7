package protocol

import "context"

// AdminService is the region and server lifecycle surface of a worker node.
type AdminService interface {
	GetRegionInfo(ctx context.Context, req *GetRegionInfoRequest) (*GetRegionInfoResponse, error)
	GetStoreFile(ctx context.Context, req *GetStoreFileRequest) (*GetStoreFileResponse, error)
	GetOnlineRegion(ctx context.Context, req *GetOnlineRegionRequest) (*GetOnlineRegionResponse, error)
	OpenRegion(ctx context.Context, req *OpenRegionRequest) (*OpenRegionResponse, error)
	CloseRegion(ctx context.Context, req *CloseRegionRequest) (*CloseRegionResponse, error)
	FlushRegion(ctx context.Context, req *FlushRegionRequest) (*FlushRegionResponse, error)
	SplitRegion(ctx context.Context, req *SplitRegionRequest) (*SplitRegionResponse, error)
	CompactRegion(ctx context.Context, req *CompactRegionRequest) (*CompactRegionResponse, error)
	ReplicateWALEntry(ctx context.Context, req *ReplicateWALEntryRequest) (*ReplicateWALEntryResponse, error)
	RollWALWriter(ctx context.Context, req *RollWALWriterRequest) (*RollWALWriterResponse, error)
	GetServerInfo(ctx context.Context, req *GetServerInfoRequest) (*GetServerInfoResponse, error)
	StopServer(ctx context.Context, req *StopServerRequest) (*StopServerResponse, error)
}

// DataService is the client-facing read/write surface of a worker node.
type DataService interface {
	Get(ctx context.Context, req *GetRequest) (*GetResponse, error)
	Mutate(ctx context.Context, req *MutateRequest) (*MutateResponse, error)
	Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error)
	LockRow(ctx context.Context, req *LockRowRequest) (*LockRowResponse, error)
	UnlockRow(ctx context.Context, req *UnlockRowRequest) (*UnlockRowResponse, error)
	BulkLoadHFile(ctx context.Context, req *BulkLoadHFileRequest) (*BulkLoadHFileResponse, error)
	ExecService(ctx context.Context, req *CoprocessorServiceRequest) (*CoprocessorServiceResponse, error)
	Multi(ctx context.Context, req *MultiRequest) (*MultiResponse, error)
}

// Service is everything a worker node answers.
type Service interface {
	AdminService
	DataService
}

// UnimplementedAdminService answers every administrative call with an empty
// response and no side effects. Embed it and override what a test needs.
type UnimplementedAdminService struct{}

func (UnimplementedAdminService) GetRegionInfo(context.Context, *GetRegionInfoRequest) (*GetRegionInfoResponse, error) {
	return &GetRegionInfoResponse{}, nil
}

func (UnimplementedAdminService) GetStoreFile(context.Context, *GetStoreFileRequest) (*GetStoreFileResponse, error) {
	return &GetStoreFileResponse{}, nil
}

func (UnimplementedAdminService) GetOnlineRegion(context.Context, *GetOnlineRegionRequest) (*GetOnlineRegionResponse, error) {
	return &GetOnlineRegionResponse{}, nil
}

func (UnimplementedAdminService) OpenRegion(context.Context, *OpenRegionRequest) (*OpenRegionResponse, error) {
	return &OpenRegionResponse{}, nil
}

func (UnimplementedAdminService) CloseRegion(context.Context, *CloseRegionRequest) (*CloseRegionResponse, error) {
	return &CloseRegionResponse{}, nil
}

func (UnimplementedAdminService) FlushRegion(context.Context, *FlushRegionRequest) (*FlushRegionResponse, error) {
	return &FlushRegionResponse{}, nil
}

func (UnimplementedAdminService) SplitRegion(context.Context, *SplitRegionRequest) (*SplitRegionResponse, error) {
	return &SplitRegionResponse{}, nil
}

func (UnimplementedAdminService) CompactRegion(context.Context, *CompactRegionRequest) (*CompactRegionResponse, error) {
	return &CompactRegionResponse{}, nil
}

func (UnimplementedAdminService) ReplicateWALEntry(context.Context, *ReplicateWALEntryRequest) (*ReplicateWALEntryResponse, error) {
	return &ReplicateWALEntryResponse{}, nil
}

func (UnimplementedAdminService) RollWALWriter(context.Context, *RollWALWriterRequest) (*RollWALWriterResponse, error) {
	return &RollWALWriterResponse{}, nil
}

func (UnimplementedAdminService) GetServerInfo(context.Context, *GetServerInfoRequest) (*GetServerInfoResponse, error) {
	return &GetServerInfoResponse{}, nil
}

func (UnimplementedAdminService) StopServer(context.Context, *StopServerRequest) (*StopServerResponse, error) {
	return &StopServerResponse{}, nil
}

var _ AdminService = UnimplementedAdminService{}
