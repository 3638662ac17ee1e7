package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	MagicNumber = 0x52

	// data access
	OpMutate        = 0x01
	OpGet           = 0x02
	OpMulti         = 0x03
	OpScan          = 0x04
	OpLockRow       = 0x05
	OpUnlockRow     = 0x06
	OpBulkLoadHFile = 0x07
	OpExecService   = 0x08

	// administrative
	OpGetRegionInfo     = 0x20
	OpGetStoreFile      = 0x21
	OpGetOnlineRegion   = 0x22
	OpOpenRegion        = 0x23
	OpCloseRegion       = 0x24
	OpFlushRegion       = 0x25
	OpSplitRegion       = 0x26
	OpCompactRegion     = 0x27
	OpReplicateWALEntry = 0x28
	OpRollWALWriter     = 0x29
	OpGetServerInfo     = 0x2A
	OpStopServer        = 0x2B

	RespOK  = 0x00
	RespVal = 0x01
	RespErr = 0xFF
)

var (
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrKeyTooLarge and ErrValueTooLarge are returned before anything is
	// written, so the stream stays in sync.
	ErrKeyTooLarge   = errors.New("key exceeds 65535 bytes")
	ErrValueTooLarge = errors.New("value exceeds 4294967295 bytes")
)

var opNames = map[byte]string{
	OpMutate:            "mutate",
	OpGet:               "get",
	OpMulti:             "multi",
	OpScan:              "scan",
	OpLockRow:           "lockRow",
	OpUnlockRow:         "unlockRow",
	OpBulkLoadHFile:     "bulkLoadHFile",
	OpExecService:       "execService",
	OpGetRegionInfo:     "getRegionInfo",
	OpGetStoreFile:      "getStoreFile",
	OpGetOnlineRegion:   "getOnlineRegion",
	OpOpenRegion:        "openRegion",
	OpCloseRegion:       "closeRegion",
	OpFlushRegion:       "flushRegion",
	OpSplitRegion:       "splitRegion",
	OpCompactRegion:     "compactRegion",
	OpReplicateWALEntry: "replicateWALEntry",
	OpRollWALWriter:     "rollWALWriter",
	OpGetServerInfo:     "getServerInfo",
	OpStopServer:        "stopServer",
}

// OpName is the method name of op, "unknown" for codes outside the protocol.
func OpName(op byte) string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "unknown"
}

// OpByName is the inverse of OpName.
func OpByName(name string) (byte, bool) {
	for op, n := range opNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

// Packet is one request or response frame. Requests carry the region in Key
// and the operation body in Value.
type Packet struct {
	Op    byte
	Key   []byte
	Value []byte
}

// [Magic 1B] [Op 1B] [KeyLen 2B] [ValLen 4B] [Key] [Value]
func Encode(w io.Writer, op byte, key []byte, value []byte) error {
	if len(key) > math.MaxUint16 {
		return fmt.Errorf("encode %s: %d bytes: %w", OpName(op), len(key), ErrKeyTooLarge)
	}
	if uint64(len(value)) > math.MaxUint32 {
		return fmt.Errorf("encode %s: %d bytes: %w", OpName(op), len(value), ErrValueTooLarge)
	}

	header := make([]byte, 8)
	header[0] = MagicNumber
	header[1] = op
	binary.BigEndian.PutUint16(header[2:4], uint16(len(key)))
	binary.BigEndian.PutUint32(header[4:8], uint32(len(value)))

	if _, err := w.Write(header); err != nil {
		return err
	}
	if len(key) > 0 {
		if _, err := w.Write(key); err != nil {
			return err
		}
	}
	if len(value) > 0 {
		if _, err := w.Write(value); err != nil {
			return err
		}
	}
	return nil
}

func Decode(r io.Reader) (*Packet, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	if header[0] != MagicNumber {
		return nil, ErrInvalidMagic
	}

	op := header[1]
	kLen := binary.BigEndian.Uint16(header[2:4])
	vLen := binary.BigEndian.Uint32(header[4:8])

	key := make([]byte, kLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}

	val := make([]byte, vLen)
	if _, err := io.ReadFull(r, val); err != nil {
		return nil, err
	}

	return &Packet{Op: op, Key: key, Value: val}, nil
}
