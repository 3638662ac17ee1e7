package node

import (
	"context"

	"fakenode/pkg/protocol"
)

// GetRegionInfo reports the catalog root region whatever region is asked
// about. The remaining admin calls come from the embedded unimplemented layer.
func (n *FakeNode) GetRegionInfo(ctx context.Context, req *protocol.GetRegionInfoRequest) (*protocol.GetRegionInfoResponse, error) {
	n.record(protocol.OpGetRegionInfo, req.Region)
	info := protocol.RootRegionInfo
	return &protocol.GetRegionInfoResponse{RegionInfo: &info}, nil
}
