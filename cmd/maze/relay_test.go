package main

import (
	"net"
	"strings"
	"testing"
)

func TestPairURL(t *testing.T) {
	tests := []struct {
		name string
		addr net.Addr
		want string
	}{
		{"explicit host", &net.TCPAddr{IP: net.IPv4(192, 168, 1, 20), Port: 8080}, "http://192.168.1.20:8080/"},
		{"ipv6 host", &net.TCPAddr{IP: net.ParseIP("fd00::1"), Port: 9000}, "http://[fd00::1]:9000/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pairURL(tt.addr); got != tt.want {
				t.Errorf("pairURL() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestPairURLUnspecifiedHost(t *testing.T) {
	got := pairURL(&net.TCPAddr{IP: net.IPv4zero, Port: 8080})
	if strings.Contains(got, "0.0.0.0") || !strings.HasSuffix(got, ":8080/") {
		t.Errorf("pairURL(0.0.0.0:8080) = %q, expected a reachable host", got)
	}
}
