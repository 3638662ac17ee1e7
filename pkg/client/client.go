package client

import (
	"errors"
	"fmt"
	"net"
	"time"

	"fakenode/pkg/common"
	"fakenode/pkg/protocol"
)

var ErrUnexpectedResponse = errors.New("unexpected response")

const dialTimeout = 5 * time.Second

// Client speaks the packet protocol to one node. It is not safe for
// concurrent use: requests and responses share one connection in order.
type Client struct {
	conn net.Conn
	addr string
}

func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn: conn,
		addr: addr,
	}, nil
}

// Get returns the stored result for row, empty when the node has none.
func (c *Client) Get(region common.RegionKey, row common.RowKey) (common.Result, error) {
	pkt, err := c.roundTrip(protocol.OpGet, region, row)
	if err != nil {
		return nil, err
	}
	if pkt.Op != protocol.RespVal {
		return nil, fmt.Errorf("get: %w (op 0x%02x)", ErrUnexpectedResponse, pkt.Op)
	}
	return common.Result(pkt.Value), nil
}

// OpenScanner opens a scanner over region and returns its id.
func (c *Client) OpenScanner(region common.RegionKey, scan *protocol.Scan) (int64, error) {
	if scan == nil {
		scan = &protocol.Scan{}
	}
	resp, err := c.ScanCall(&protocol.ScanRequest{Region: region, Scan: scan})
	if err != nil {
		return 0, err
	}
	return resp.ScannerID, nil
}

// Next advances scanner id by one call.
func (c *Client) Next(id int64) ([]common.Result, bool, error) {
	resp, err := c.ScanCall(&protocol.ScanRequest{ScannerID: id, NumberOfRows: 1})
	if err != nil {
		return nil, false, err
	}
	return resp.Results, resp.MoreResults, nil
}

// Scan opens a scanner over region and drives it until the node reports no
// more results.
func (c *Client) Scan(region common.RegionKey) ([]common.Result, error) {
	id, err := c.OpenScanner(region, nil)
	if err != nil {
		return nil, err
	}

	var out []common.Result
	for {
		results, more, err := c.Next(id)
		if err != nil {
			return out, err
		}
		out = append(out, results...)
		if !more {
			return out, nil
		}
	}
}

func (c *Client) ScanCall(req *protocol.ScanRequest) (*protocol.ScanResponse, error) {
	body, err := protocol.EncodeScanRequest(req)
	if err != nil {
		return nil, err
	}
	pkt, err := c.roundTrip(protocol.OpScan, req.Region, body)
	if err != nil {
		return nil, err
	}
	if pkt.Op != protocol.RespVal {
		return nil, fmt.Errorf("scan: %w (op 0x%02x)", ErrUnexpectedResponse, pkt.Op)
	}
	return protocol.DecodeScanResponse(pkt.Value)
}

// GetRegionInfo returns the name of the region the node reports.
func (c *Client) GetRegionInfo(region common.RegionKey) (common.RegionKey, error) {
	pkt, err := c.roundTrip(protocol.OpGetRegionInfo, region, nil)
	if err != nil {
		return nil, err
	}
	return common.RegionKey(pkt.Value), nil
}

// Call sends any op and returns the raw response body. Error responses are
// returned as status errors.
func (c *Client) Call(op byte, region common.RegionKey, body []byte) ([]byte, error) {
	pkt, err := c.roundTrip(op, region, body)
	if err != nil {
		return nil, err
	}
	return pkt.Value, nil
}

func (c *Client) Addr() string {
	return c.addr
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// roundTrip does not retry: a scan request is not idempotent.
func (c *Client) roundTrip(op byte, key, value []byte) (*protocol.Packet, error) {
	if err := protocol.Encode(c.conn, op, key, value); err != nil {
		return nil, err
	}
	pkt, err := protocol.Decode(c.conn)
	if err != nil {
		return nil, err
	}
	if pkt.Op == protocol.RespErr {
		return nil, protocol.DecodeError(pkt.Value)
	}
	return pkt, nil
}
