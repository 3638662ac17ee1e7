package common

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// RegionKey 标识一个数据分区，按字节做字典序比较
type RegionKey []byte

// RowKey 标识分区内的一行
type RowKey []byte

// Result 是 get/scan 返回的记录，原样存储与回放
type Result []byte

// Compare orders region keys lexicographically over raw bytes.
func (k RegionKey) Compare(other RegionKey) int {
	return bytes.Compare(k, other)
}

func (k RegionKey) String() string {
	return fmt.Sprintf("%q", []byte(k))
}

// ServerName identifies a worker node the way the cluster addresses it.
type ServerName struct {
	Host      string
	Port      int
	StartCode int64
}

// String renders host,port,startcode.
func (sn ServerName) String() string {
	return sn.Host + "," + strconv.Itoa(sn.Port) + "," + strconv.FormatInt(sn.StartCode, 10)
}

// ParseServerName is the inverse of ServerName.String.
func ParseServerName(s string) (ServerName, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return ServerName{}, fmt.Errorf("parse server name %q: expected host,port,startcode", s)
	}
	port, err := strconv.Atoi(parts[1])
	if err != nil {
		return ServerName{}, fmt.Errorf("parse server name %q: port: %w", s, err)
	}
	code, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return ServerName{}, fmt.Errorf("parse server name %q: start code: %w", s, err)
	}
	return ServerName{Host: parts[0], Port: port, StartCode: code}, nil
}
