package protocol

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	buf := new(bytes.Buffer)
	region := []byte("t1,,1700000000000.abcdef.")
	row := []byte("row-0001")

	if err := Encode(buf, OpGet, region, row); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	pkt, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if pkt.Op != OpGet {
		t.Errorf("got op %v, want %v", pkt.Op, OpGet)
	}
	if !bytes.Equal(pkt.Key, region) {
		t.Errorf("key mismatch: got %q", pkt.Key)
	}
	if !bytes.Equal(pkt.Value, row) {
		t.Errorf("value mismatch: got %q", pkt.Value)
	}
}

func TestDecodeInvalidMagic(t *testing.T) {
	buf := bytes.NewReader([]byte{0x00, OpGet, 0, 1, 0, 0, 0, 1, 'r', 'x'})
	_, err := Decode(buf)
	if err != ErrInvalidMagic {
		t.Errorf("expected invalid magic error, got %v", err)
	}
}

func TestEncodeDecodeEmptyKeyValue(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := Encode(buf, OpRollWALWriter, nil, nil); err != nil {
		t.Fatalf("Encode empty failed: %v", err)
	}
	pkt, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if pkt.Op != OpRollWALWriter || len(pkt.Key) != 0 || len(pkt.Value) != 0 {
		t.Errorf("unexpected result: %+v", pkt)
	}
}

func TestEncodeRejectsOversizedKey(t *testing.T) {
	buf := new(bytes.Buffer)
	key := make([]byte, math.MaxUint16+1)

	err := Encode(buf, OpGet, key, []byte("row"))
	if !errors.Is(err, ErrKeyTooLarge) {
		t.Fatalf("expected ErrKeyTooLarge, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %d bytes", buf.Len())
	}

	if err := Encode(buf, OpGet, key[:math.MaxUint16], nil); err != nil {
		t.Fatalf("Encode at the limit failed: %v", err)
	}
	pkt, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(pkt.Key) != math.MaxUint16 {
		t.Errorf("got key len %d, want %d", len(pkt.Key), math.MaxUint16)
	}
}

func TestRoundtripAllOps(t *testing.T) {
	key := []byte("region")
	val := []byte("body")

	for op := range opNames {
		buf := new(bytes.Buffer)
		if err := Encode(buf, op, key, val); err != nil {
			t.Errorf("Encode op %s failed: %v", OpName(op), err)
			continue
		}
		pkt, err := Decode(buf)
		if err != nil {
			t.Errorf("Decode op %s failed: %v", OpName(op), err)
			continue
		}
		if pkt.Op != op {
			t.Errorf("op %s: got %v", OpName(op), pkt.Op)
		}
	}
}

func TestDecodeIncompleteHeader(t *testing.T) {
	r := bytes.NewReader([]byte{MagicNumber, OpGet}) // only 2 bytes
	_, err := Decode(r)
	if err != io.ErrUnexpectedEOF {
		t.Errorf("expected unexpected EOF for incomplete header, got %v", err)
	}
}

func TestOpNames(t *testing.T) {
	if OpName(OpScan) != "scan" {
		t.Errorf("OpName(OpScan) = %q", OpName(OpScan))
	}
	if OpName(0x7F) != "unknown" {
		t.Errorf("OpName(0x7F) = %q", OpName(0x7F))
	}
	op, ok := OpByName("splitRegion")
	if !ok || op != OpSplitRegion {
		t.Errorf("OpByName(splitRegion) = %v, %v", op, ok)
	}
	if _, ok := OpByName("nope"); ok {
		t.Error("OpByName(nope) should not resolve")
	}
}
