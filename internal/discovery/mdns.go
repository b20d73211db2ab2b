package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/tl50ctl/internal/logging"
)

const (
	// ServiceType is the mDNS service type bridges advertise
	ServiceType = "_tl50._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for bridge discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is the bridge port assumed when an entry carries none
	DefaultPort = 8750

	// DefaultPath is the WebSocket path assumed when the TXT record has none
	DefaultPath = "/ws"
)

// Scanner handles mDNS bridge discovery
type Scanner struct {
	// Timeout is the maximum time to wait for bridge discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForBridges discovers every bridge that answers before the scanner
// timeout or ctx ends.
func (s *Scanner) ScanForBridges(ctx context.Context) ([]*Bridge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)

	var mu sync.Mutex
	bridges := make([]*Bridge, 0)
	seen := make(map[string]bool)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			bridge := s.parseServiceEntry(entry)
			if bridge == nil {
				continue
			}
			mu.Lock()
			if !seen[bridge.Instance] {
				seen[bridge.Instance] = true
				bridges = append(bridges, bridge)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	out := make([]*Bridge, len(bridges))
	copy(out, bridges)
	return out, nil
}

// WaitForBridge waits for the bridge advertised under instance.
func (s *Scanner) WaitForBridge(ctx context.Context, instance string) (*Bridge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Bridge, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			bridge := s.parseServiceEntry(entry)
			if bridge != nil && strings.EqualFold(bridge.Instance, instance) {
				select {
				case found <- bridge:
				default:
				}
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case bridge := <-found:
		return bridge, nil
	case <-ctx.Done():
		select {
		case bridge := <-found:
			return bridge, nil
		default:
		}
		return nil, fmt.Errorf("bridge %q not found within timeout", instance)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Bridge.
// Returns nil if the entry has no instance name or no address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Bridge {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Bridge{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     parseTXT(entry.Text),
		DiscoveredAt: time.Now(),
	}
}

// parseTXT splits "key=value" TXT strings. A key without '=' maps to "".
func parseTXT(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		key, value, _ := strings.Cut(txt, "=")
		if key == "" {
			continue
		}
		metadata[key] = value
	}
	return metadata
}

// TXTRecords builds the TXT strings a bridge advertises, sorted by key.
func TXTRecords(metadata map[string]string) []string {
	records := make([]string, 0, len(metadata))
	for key, value := range metadata {
		records = append(records, key+"="+value)
	}
	sort.Strings(records)
	return records
}

// Advertisement is a running mDNS registration.
type Advertisement struct {
	server *zeroconf.Server
	once   sync.Once
}

// Shutdown withdraws the advertisement. It is safe to call more than once.
func (a *Advertisement) Shutdown() {
	if a == nil {
		return
	}
	a.once.Do(func() {
		if a.server != nil {
			a.server.Shutdown()
		}
	})
}

// Advertise announces a bridge instance on port until Shutdown is called.
func Advertise(instance string, port int, metadata map[string]string) (*Advertisement, error) {
	if instance == "" {
		return nil, errors.New("advertise: instance name is required")
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("advertise: invalid port %d", port)
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, TXTRecords(metadata), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising bridge over mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)

	return &Advertisement{server: server}, nil
}

// ScanForBridges is a convenience function to scan with a custom timeout
func ScanForBridges(timeout time.Duration) ([]*Bridge, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForBridges(context.Background())
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan() ([]*Bridge, error) {
	return ScanForBridges(3 * time.Second)
}
