package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerNameRoundtrip(t *testing.T) {
	sn := ServerName{Host: "worker-1.example.org", Port: 60020, StartCode: 1700000000123}
	assert.Equal(t, "worker-1.example.org,60020,1700000000123", sn.String())

	parsed, err := ParseServerName(sn.String())
	require.NoError(t, err)
	assert.Equal(t, sn, parsed)
}

func TestParseServerNameInvalid(t *testing.T) {
	for _, s := range []string{"", "host", "host,port,1", "host,1,code"} {
		_, err := ParseServerName(s)
		assert.Error(t, err, s)
	}
}

func TestRegionKeyCompareByContent(t *testing.T) {
	a := RegionKey("region-a")
	b := RegionKey([]byte("region-a"))
	assert.Equal(t, 0, a.Compare(b))
	assert.Equal(t, -1, a.Compare(RegionKey("region-b")))
}
