package client

import (
	"bytes"
	"errors"
	"net"
	"sync/atomic"
	"testing"

	"fakenode/pkg/common"
	"fakenode/pkg/protocol"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestDialInvalidAddr(t *testing.T) {
	_, err := Dial("invalid:invalid:invalid")
	if err == nil {
		t.Fatal("expected error for invalid address")
	}
}

func TestDialUnreachable(t *testing.T) {
	// Connect to non-routable IP (RFC 5737) - expect error
	_, err := Dial("192.0.2.1:9999")
	if err == nil {
		t.Skip("connection unexpectedly succeeded (e.g. in sandbox)")
	}
}

// replyWith serves one connection, answering every request with the packet
// built by reply.
func replyWith(t *testing.T, reply func(req *protocol.Packet) *protocol.Packet) *Client {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			req, err := protocol.Decode(conn)
			if err != nil {
				return
			}
			resp := reply(req)
			if err := protocol.Encode(conn, resp.Op, nil, resp.Value); err != nil {
				return
			}
		}
	}()

	c, err := Dial(ln.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClientDecodesErrorResponse(t *testing.T) {
	c := replyWith(t, func(*protocol.Packet) *protocol.Packet {
		return &protocol.Packet{
			Op:    protocol.RespErr,
			Value: protocol.EncodeError(status.Error(codes.NotFound, "scanner: invalid handle")),
		}
	})

	_, _, err := c.Next(1)
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, "scanner: invalid handle", status.Convert(err).Message())
}

func TestClientRejectsUnexpectedResponse(t *testing.T) {
	c := replyWith(t, func(*protocol.Packet) *protocol.Packet {
		return &protocol.Packet{Op: protocol.RespOK}
	})

	_, err := c.Get(common.RegionKey("R"), common.RowKey("row"))
	assert.True(t, errors.Is(err, ErrUnexpectedResponse))

	_, err = c.OpenScanner(common.RegionKey("R"), nil)
	assert.True(t, errors.Is(err, ErrUnexpectedResponse))
}

func TestClientScanDrivesToExhaustion(t *testing.T) {
	remaining := []common.Result{common.Result("A"), common.Result("B")}
	var sawOpen atomic.Bool
	c := replyWith(t, func(req *protocol.Packet) *protocol.Packet {
		sr, err := protocol.DecodeScanRequest(req.Key, req.Value)
		if err != nil {
			return &protocol.Packet{Op: protocol.RespErr, Value: protocol.EncodeError(err)}
		}
		resp := &protocol.ScanResponse{MoreResults: true}
		switch {
		case sr.HasScan():
			sawOpen.Store(string(req.Key) == "R")
			resp.ScannerID = 42
		case len(remaining) > 0 && sr.ScannerID == 42:
			resp.Results = remaining[:1]
			remaining = remaining[1:]
		default:
			resp.MoreResults = false
		}
		return &protocol.Packet{Op: protocol.RespVal, Value: protocol.EncodeScanResponse(resp)}
	})

	results, err := c.Scan(common.RegionKey("R"))
	require.NoError(t, err)
	assert.True(t, sawOpen.Load())
	assert.Equal(t, []common.Result{common.Result("A"), common.Result("B")}, results)
}

func TestClientOversizedRegionKeepsConnection(t *testing.T) {
	c := replyWith(t, func(req *protocol.Packet) *protocol.Packet {
		return &protocol.Packet{Op: protocol.RespVal, Value: append([]byte("got:"), req.Key...)}
	})

	big := common.RegionKey(bytes.Repeat([]byte("r"), 70000))
	_, err := c.Get(big, common.RowKey("row"))
	assert.ErrorIs(t, err, protocol.ErrKeyTooLarge)

	_, err = c.OpenScanner(common.RegionKey("R"), &protocol.Scan{StopRow: common.RowKey(big)})
	assert.ErrorIs(t, err, protocol.ErrKeyTooLarge)

	got, err := c.Get(common.RegionKey("R"), common.RowKey("row"))
	require.NoError(t, err)
	assert.Equal(t, common.Result("got:R"), got)
}
