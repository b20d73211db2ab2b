package discovery

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func newEntry(instance, host string, port int, v4, v6 []net.IP, txt ...string) *zeroconf.ServiceEntry {
	entry := zeroconf.NewServiceEntry(instance, ServiceType, ServiceDomain)
	entry.HostName = host
	entry.Port = port
	entry.AddrIPv4 = v4
	entry.AddrIPv6 = v6
	entry.Text = txt
	return entry
}

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantInstance string
		wantIP       string
		wantPort     int
	}{
		{
			name: "bridge with IPv4",
			entry: newEntry("workshop", "pi-tower.local.", 8750,
				[]net.IP{net.ParseIP("192.168.4.16")}, nil, "path=/ws", "version=1.0.0"),
			wantInstance: "workshop",
			wantIP:       "192.168.4.16",
			wantPort:     8750,
		},
		{
			name: "bridge with custom port",
			entry: newEntry("line-3", "line3.local.", 9000,
				[]net.IP{net.ParseIP("10.0.0.5")}, nil),
			wantInstance: "line-3",
			wantIP:       "10.0.0.5",
			wantPort:     9000,
		},
		{
			name: "no port specified (should default)",
			entry: newEntry("workshop", "pi-tower.local.", 0,
				[]net.IP{net.ParseIP("172.16.0.1")}, nil),
			wantInstance: "workshop",
			wantIP:       "172.16.0.1",
			wantPort:     DefaultPort,
		},
		{
			name:    "empty instance",
			entry:   newEntry("", "pi-tower.local.", 8750, []net.IP{net.ParseIP("192.168.1.1")}, nil),
			wantNil: true,
		},
		{
			name:    "no IP address",
			entry:   newEntry("workshop", "pi-tower.local.", 8750, nil, nil),
			wantNil: true,
		},
		{
			name:         "IPv6 only bridge",
			entry:        newEntry("v6", "v6.local.", 8750, nil, []net.IP{net.ParseIP("fe80::1")}),
			wantInstance: "v6",
			wantIP:       "fe80::1",
			wantPort:     8750,
		},
		{
			name: "both IPv4 and IPv6 (should prefer IPv4)",
			entry: newEntry("dual", "dual.local.", 8750,
				[]net.IP{net.ParseIP("192.168.1.50")}, []net.IP{net.ParseIP("fe80::2")}),
			wantInstance: "dual",
			wantIP:       "192.168.1.50",
			wantPort:     8750,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if bridge != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", bridge)
				}
				return
			}

			if bridge == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil bridge")
			}
			if bridge.Instance != tt.wantInstance {
				t.Errorf("bridge.Instance = %v, want %v", bridge.Instance, tt.wantInstance)
			}
			if bridge.IP != tt.wantIP {
				t.Errorf("bridge.IP = %v, want %v", bridge.IP, tt.wantIP)
			}
			if bridge.Port != tt.wantPort {
				t.Errorf("bridge.Port = %v, want %v", bridge.Port, tt.wantPort)
			}
			if bridge.Hostname != tt.entry.HostName {
				t.Errorf("bridge.Hostname = %v, want %v", bridge.Hostname, tt.entry.HostName)
			}
			if time.Since(bridge.DiscoveredAt) > time.Second {
				t.Errorf("bridge.DiscoveredAt is not recent: %v", bridge.DiscoveredAt)
			}
		})
	}
}

func TestParseTXT(t *testing.T) {
	got := parseTXT([]string{"path=/ws", "version=1.0=rc", "flag", "=orphan", "serial="})

	want := map[string]string{
		"path":    "/ws",
		"version": "1.0=rc",
		"flag":    "",
		"serial":  "",
	}
	if len(got) != len(want) {
		t.Errorf("parseTXT() has %d entries, want %d: %v", len(got), len(want), got)
	}
	for key, value := range want {
		if actual, ok := got[key]; !ok || actual != value {
			t.Errorf("parseTXT()[%q] = %q (present %v), want %q", key, actual, ok, value)
		}
	}
}

func TestTXTRecords(t *testing.T) {
	got := TXTRecords(map[string]string{"version": "1.0.0", "path": "/ws", "serial": "/dev/ttyUSB0"})
	want := "path=/ws,serial=/dev/ttyUSB0,version=1.0.0"
	if strings.Join(got, ",") != want {
		t.Errorf("TXTRecords() = %v, want %s", got, want)
	}

	if back := parseTXT(got); back["serial"] != "/dev/ttyUSB0" {
		t.Errorf("parseTXT(TXTRecords()) lost serial: %v", back)
	}
}

func TestAdvertise_RejectsBadArguments(t *testing.T) {
	tests := []struct {
		name     string
		instance string
		port     int
	}{
		{"empty instance", "", 8750},
		{"zero port", "workshop", 0},
		{"port too large", "workshop", 70000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Advertise(tt.instance, tt.port, nil); err == nil {
				t.Error("Advertise() error = nil, want error")
			}
		})
	}
}

func TestAdvertisement_ShutdownNil(t *testing.T) {
	var a *Advertisement
	a.Shutdown()
	(&Advertisement{}).Shutdown()
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

// Note: live mDNS discovery needs multicast on the test host and is
// exercised by hand with `tl50ctl discover`.
