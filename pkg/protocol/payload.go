package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"fakenode/pkg/common"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	scanFlagHasScan = 1 << 0
	scanFlagClose   = 1 << 1
)

var ErrShortBody = errors.New("body too short")

// EncodeScanRequest lays out a scan body:
// [Flags 1B] [ScannerID 8B] [NumberOfRows 4B] and, when a scan is being
// opened, [StartLen 2B][Start] [StopLen 2B][Stop] [FilterLen 4B][Filter].
func EncodeScanRequest(req *ScanRequest) ([]byte, error) {
	if req.HasScan() {
		if len(req.Scan.StartRow) > math.MaxUint16 {
			return nil, fmt.Errorf("scan start row: %d bytes: %w", len(req.Scan.StartRow), ErrKeyTooLarge)
		}
		if len(req.Scan.StopRow) > math.MaxUint16 {
			return nil, fmt.Errorf("scan stop row: %d bytes: %w", len(req.Scan.StopRow), ErrKeyTooLarge)
		}
		if uint64(len(req.Scan.Filter)) > math.MaxUint32 {
			return nil, fmt.Errorf("scan filter: %d bytes: %w", len(req.Scan.Filter), ErrValueTooLarge)
		}
	}

	buf := new(bytes.Buffer)

	var flags byte
	if req.HasScan() {
		flags |= scanFlagHasScan
	}
	if req.CloseScanner {
		flags |= scanFlagClose
	}
	buf.WriteByte(flags)
	binary.Write(buf, binary.BigEndian, req.ScannerID)
	binary.Write(buf, binary.BigEndian, req.NumberOfRows)

	if req.HasScan() {
		binary.Write(buf, binary.BigEndian, uint16(len(req.Scan.StartRow)))
		buf.Write(req.Scan.StartRow)
		binary.Write(buf, binary.BigEndian, uint16(len(req.Scan.StopRow)))
		buf.Write(req.Scan.StopRow)
		binary.Write(buf, binary.BigEndian, uint32(len(req.Scan.Filter)))
		buf.Write(req.Scan.Filter)
	}
	return buf.Bytes(), nil
}

func DecodeScanRequest(region []byte, body []byte) (*ScanRequest, error) {
	r := bytes.NewReader(body)
	flags, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("scan request flags: %w", ErrShortBody)
	}

	req := &ScanRequest{Region: region, CloseScanner: flags&scanFlagClose != 0}
	if err := binary.Read(r, binary.BigEndian, &req.ScannerID); err != nil {
		return nil, fmt.Errorf("scan request scanner id: %w", ErrShortBody)
	}
	if err := binary.Read(r, binary.BigEndian, &req.NumberOfRows); err != nil {
		return nil, fmt.Errorf("scan request number of rows: %w", ErrShortBody)
	}

	if flags&scanFlagHasScan == 0 {
		return req, nil
	}

	scan := &Scan{}
	if scan.StartRow, err = readChunk16(r); err != nil {
		return nil, fmt.Errorf("scan start row: %w", err)
	}
	if scan.StopRow, err = readChunk16(r); err != nil {
		return nil, fmt.Errorf("scan stop row: %w", err)
	}
	if scan.Filter, err = readChunk32(r); err != nil {
		return nil, fmt.Errorf("scan filter: %w", err)
	}
	req.Scan = scan
	return req, nil
}

// EncodeScanResponse lays out
// [ScannerID 8B] [More 1B] [Count 4B] ( [Len 4B] [Result] ) * Count.
func EncodeScanResponse(resp *ScanResponse) []byte {
	buf := new(bytes.Buffer)

	binary.Write(buf, binary.BigEndian, resp.ScannerID)
	if resp.MoreResults {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	binary.Write(buf, binary.BigEndian, uint32(len(resp.Results)))
	for _, res := range resp.Results {
		binary.Write(buf, binary.BigEndian, uint32(len(res)))
		buf.Write(res)
	}
	return buf.Bytes()
}

func DecodeScanResponse(body []byte) (*ScanResponse, error) {
	r := bytes.NewReader(body)
	resp := &ScanResponse{}

	if err := binary.Read(r, binary.BigEndian, &resp.ScannerID); err != nil {
		return nil, fmt.Errorf("scan response scanner id: %w", ErrShortBody)
	}
	more, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("scan response more flag: %w", ErrShortBody)
	}
	resp.MoreResults = more != 0

	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, fmt.Errorf("scan response count: %w", ErrShortBody)
	}
	for i := 0; i < int(count); i++ {
		res, err := readChunk32(r)
		if err != nil {
			return nil, fmt.Errorf("scan response result %d: %w", i, err)
		}
		resp.Results = append(resp.Results, common.Result(res))
	}
	return resp, nil
}

// EncodeError lays out [Code 4B] [Message].
func EncodeError(err error) []byte {
	st := status.Convert(ToStatus(err))
	buf := make([]byte, 4+len(st.Message()))
	binary.BigEndian.PutUint32(buf[:4], uint32(st.Code()))
	copy(buf[4:], st.Message())
	return buf
}

// DecodeError rebuilds the status error carried by an error response.
func DecodeError(body []byte) error {
	if len(body) < 4 {
		return status.Error(codes.Unknown, "malformed error response")
	}
	code := codes.Code(binary.BigEndian.Uint32(body[:4]))
	return status.Error(code, string(body[4:]))
}

func readChunk16(r *bytes.Reader) ([]byte, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, ErrShortBody
	}
	return readN(r, int(n))
}

func readChunk32(r *bytes.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, ErrShortBody
	}
	return readN(r, int(n))
}

func readN(r *bytes.Reader, n int) ([]byte, error) {
	if n > r.Len() {
		return nil, ErrShortBody
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, ErrShortBody
	}
	return out, nil
}
