package node

import (
	"context"

	"fakenode/pkg/common"
	"fakenode/pkg/log"
	"fakenode/pkg/protocol"
	"fakenode/pkg/scanner"
)

func (n *FakeNode) record(op byte, region common.RegionKey) {
	log.Node.Debug().Str("op", protocol.OpName(op)).Str("region", region.String()).Msg("request")
}

// Get answers from the lookup fixtures. A missing row yields an empty result,
// not an error.
func (n *FakeNode) Get(ctx context.Context, req *protocol.GetRequest) (*protocol.GetResponse, error) {
	n.record(protocol.OpGet, req.Region)
	result, ok := n.store.Lookup(req.Region, req.Row)
	n.stats.RecordLookup(ok)
	return &protocol.GetResponse{Result: result}, nil
}

// Scan opens a scanner when the request carries scan parameters, otherwise it
// advances the scanner named by ScannerID by one result. The parameters
// themselves are ignored: every scanner replays its region's fixture sequence.
// Once a scanner runs dry the response says so and the scanner is closed.
func (n *FakeNode) Scan(ctx context.Context, req *protocol.ScanRequest) (*protocol.ScanResponse, error) {
	n.record(protocol.OpScan, req.Region)

	resp := &protocol.ScanResponse{}
	if req.HasScan() {
		resp.ScannerID = int64(n.OpenScanner(req.Region))
		resp.MoreResults = true
		return resp, nil
	}

	h := scanner.Handle(req.ScannerID)
	result, ok, err := n.Next(h)
	if err != nil {
		return nil, protocol.ToStatus(err)
	}
	if ok {
		resp.Results = append(resp.Results, result)
		resp.MoreResults = true
		return resp, nil
	}
	resp.MoreResults = false
	n.CloseScanner(h)
	return resp, nil
}

func (n *FakeNode) OpenScanner(region common.RegionKey) scanner.Handle {
	h := n.scanners.Open(region)
	log.Node.Debug().Int64("scanner", int64(h)).Str("region", region.String()).Msg("scanner opened")
	return h
}

func (n *FakeNode) Next(h scanner.Handle) (common.Result, bool, error) {
	return n.scanners.Next(h)
}

// NextBatch returns at most one result whatever count asks for.
func (n *FakeNode) NextBatch(h scanner.Handle, count int) ([]common.Result, error) {
	return n.scanners.NextBatch(h, count)
}

func (n *FakeNode) CloseScanner(h scanner.Handle) {
	n.scanners.Close(h)
	log.Node.Debug().Int64("scanner", int64(h)).Msg("scanner closed")
}

func (n *FakeNode) Mutate(ctx context.Context, req *protocol.MutateRequest) (*protocol.MutateResponse, error) {
	n.record(protocol.OpMutate, req.Region)
	return &protocol.MutateResponse{}, nil
}

func (n *FakeNode) LockRow(ctx context.Context, req *protocol.LockRowRequest) (*protocol.LockRowResponse, error) {
	n.record(protocol.OpLockRow, req.Region)
	return &protocol.LockRowResponse{}, nil
}

func (n *FakeNode) UnlockRow(ctx context.Context, req *protocol.UnlockRowRequest) (*protocol.UnlockRowResponse, error) {
	n.record(protocol.OpUnlockRow, req.Region)
	return &protocol.UnlockRowResponse{}, nil
}

func (n *FakeNode) BulkLoadHFile(ctx context.Context, req *protocol.BulkLoadHFileRequest) (*protocol.BulkLoadHFileResponse, error) {
	n.record(protocol.OpBulkLoadHFile, req.Region)
	return &protocol.BulkLoadHFileResponse{}, nil
}

func (n *FakeNode) ExecService(ctx context.Context, req *protocol.CoprocessorServiceRequest) (*protocol.CoprocessorServiceResponse, error) {
	n.record(protocol.OpExecService, req.Region)
	return &protocol.CoprocessorServiceResponse{}, nil
}

func (n *FakeNode) Multi(ctx context.Context, req *protocol.MultiRequest) (*protocol.MultiResponse, error) {
	n.record(protocol.OpMulti, req.Region)
	return &protocol.MultiResponse{}, nil
}
