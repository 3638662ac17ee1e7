package network

import (
	"context"

	"fakenode/pkg/protocol"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Dispatch decodes the body of one request packet, calls the matching service
// method and returns the response op and body. Failures come back as a
// RespErr packet carrying the status envelope.
func Dispatch(ctx context.Context, svc protocol.Service, pkt *protocol.Packet) (byte, []byte, error) {
	region := pkt.Key
	var err error

	switch pkt.Op {
	case protocol.OpGet:
		var resp *protocol.GetResponse
		resp, err = svc.Get(ctx, &protocol.GetRequest{Region: region, Row: pkt.Value})
		if err == nil {
			return protocol.RespVal, resp.Result, nil
		}

	case protocol.OpScan:
		req, decErr := protocol.DecodeScanRequest(region, pkt.Value)
		if decErr != nil {
			err = status.Error(codes.InvalidArgument, decErr.Error())
			break
		}
		var resp *protocol.ScanResponse
		resp, err = svc.Scan(ctx, req)
		if err == nil {
			return protocol.RespVal, protocol.EncodeScanResponse(resp), nil
		}

	case protocol.OpGetRegionInfo:
		var resp *protocol.GetRegionInfoResponse
		resp, err = svc.GetRegionInfo(ctx, &protocol.GetRegionInfoRequest{Region: region})
		if err == nil {
			if resp.RegionInfo == nil {
				return protocol.RespOK, nil, nil
			}
			return protocol.RespVal, resp.RegionInfo.Name, nil
		}

	case protocol.OpMutate:
		_, err = svc.Mutate(ctx, &protocol.MutateRequest{Region: region, Mutation: pkt.Value})
	case protocol.OpMulti:
		_, err = svc.Multi(ctx, &protocol.MultiRequest{Region: region})
	case protocol.OpLockRow:
		_, err = svc.LockRow(ctx, &protocol.LockRowRequest{Region: region})
	case protocol.OpUnlockRow:
		_, err = svc.UnlockRow(ctx, &protocol.UnlockRowRequest{Region: region})
	case protocol.OpBulkLoadHFile:
		_, err = svc.BulkLoadHFile(ctx, &protocol.BulkLoadHFileRequest{Region: region})
	case protocol.OpExecService:
		_, err = svc.ExecService(ctx, &protocol.CoprocessorServiceRequest{Region: region, Payload: pkt.Value})
	case protocol.OpGetStoreFile:
		_, err = svc.GetStoreFile(ctx, &protocol.GetStoreFileRequest{Region: region})
	case protocol.OpGetOnlineRegion:
		_, err = svc.GetOnlineRegion(ctx, &protocol.GetOnlineRegionRequest{})
	case protocol.OpOpenRegion:
		_, err = svc.OpenRegion(ctx, &protocol.OpenRegionRequest{})
	case protocol.OpCloseRegion:
		_, err = svc.CloseRegion(ctx, &protocol.CloseRegionRequest{Region: region})
	case protocol.OpFlushRegion:
		_, err = svc.FlushRegion(ctx, &protocol.FlushRegionRequest{Region: region})
	case protocol.OpSplitRegion:
		_, err = svc.SplitRegion(ctx, &protocol.SplitRegionRequest{Region: region, SplitPoint: pkt.Value})
	case protocol.OpCompactRegion:
		_, err = svc.CompactRegion(ctx, &protocol.CompactRegionRequest{Region: region})
	case protocol.OpReplicateWALEntry:
		_, err = svc.ReplicateWALEntry(ctx, &protocol.ReplicateWALEntryRequest{})
	case protocol.OpRollWALWriter:
		_, err = svc.RollWALWriter(ctx, &protocol.RollWALWriterRequest{})
	case protocol.OpGetServerInfo:
		_, err = svc.GetServerInfo(ctx, &protocol.GetServerInfoRequest{})
	case protocol.OpStopServer:
		_, err = svc.StopServer(ctx, &protocol.StopServerRequest{Reason: string(pkt.Value)})

	default:
		err = status.Errorf(codes.Unimplemented, "unknown op 0x%02x", pkt.Op)
	}

	if err != nil {
		return protocol.RespErr, protocol.EncodeError(err), err
	}
	return protocol.RespOK, nil, nil
}
