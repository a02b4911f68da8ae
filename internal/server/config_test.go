package server

import (
	"net"
	"testing"
)

func TestIsPrivateIP(t *testing.T) {
	cases := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"8.8.8.8", false},
		{"1.1.1.1", false},
	}
	for _, c := range cases {
		got := isPrivateIP(net.ParseIP(c.ip))
		if got != c.want {
			t.Errorf("isPrivateIP(%s) = %v, want %v", c.ip, got, c.want)
		}
	}
}

func TestListenBindsAndAdvertisesLoopback(t *testing.T) {
	lis, advertised, err := Listen("private", "127.0.0.1", "127.0.0.1", 0)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer lis.Close()

	if advertised == "" {
		t.Error("advertised address is empty")
	}
	host, _, err := net.SplitHostPort(advertised)
	if err != nil {
		t.Fatalf("SplitHostPort(%q): %v", advertised, err)
	}
	if host != "127.0.0.1" {
		t.Errorf("advertised host = %q, want 127.0.0.1", host)
	}
}

func TestListenRejectsModeHostMismatch(t *testing.T) {
	if _, _, err := Listen("private", "127.0.0.1", "8.8.8.8", 0); err == nil {
		t.Error("Listen should reject a public host when mode=private")
	}
	if _, _, err := Listen("public", "127.0.0.1", "10.0.0.5", 0); err == nil {
		t.Error("Listen should reject a private host when mode=public")
	}
}
