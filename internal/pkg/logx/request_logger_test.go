package logx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want string
	}{
		{"ipv4 with port", "203.0.113.42:51234", "203.0.113.0"},
		{"ipv4 without port", "198.51.100.7", "198.51.100.0"},
		{"loopback", "127.0.0.1:8080", "127.0.0.1"},
		{"ipv6 with port", "[2001:db8:1:2:3:4:5:6]:443", "2001:db8:1:2::"},
		{"ipv6 without port", "2001:db8::1", "2001:db8::"},
		{"garbage", "not-an-address", "unknown_ip"},
		{"empty", "", "unknown_ip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, anonymizeIP(tt.addr))
		})
	}
}
