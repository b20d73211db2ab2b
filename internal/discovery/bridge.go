package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Bridge represents a tl50ctl WebSocket bridge found on the network
type Bridge struct {
	// Instance is the advertised instance name (e.g., "workshop")
	Instance string

	// Hostname is the mDNS hostname (e.g., "pi-tower.local.")
	Hostname string

	// IP is the bridge address, IPv4 when available
	IP string

	// Port is the bridge HTTP port
	Port int

	// Metadata contains the TXT record data
	// Common fields: "path=/ws", "version=1.2.0", "serial=/dev/ttyUSB0"
	Metadata map[string]string

	// DiscoveredAt is when the bridge was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the bridge
func (b *Bridge) String() string {
	return fmt.Sprintf("tl50ctl bridge %s (%s) at %s", b.Instance, b.Hostname, b.hostPort())
}

// URL returns the WebSocket URL clients send commands to
func (b *Bridge) URL() string {
	path := b.GetMetadata("path")
	if path == "" {
		path = DefaultPath
	}
	return "ws://" + b.hostPort() + path
}

// HealthURL returns the bridge health check URL
func (b *Bridge) HealthURL() string {
	return "http://" + b.hostPort() + "/healthz"
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Bridge) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}

func (b *Bridge) hostPort() string {
	return net.JoinHostPort(b.IP, strconv.Itoa(b.Port))
}
