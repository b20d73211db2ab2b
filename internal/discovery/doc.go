// Package discovery finds and announces tl50ctl WebSocket bridges over mDNS.
//
// A bridge started with `tl50ctl serve --advertise` registers itself under
// the "_tl50._tcp" service type. Other machines on the same network segment
// can then locate it without knowing its address. Serial ports are never
// enumerated here; only network bridges are discovered.
//
// # Usage Example
//
//	// Announce a bridge
//	ad, err := discovery.Advertise("workshop", 8750, map[string]string{"path": "/ws"})
//	if err != nil {
//	    return err
//	}
//	defer ad.Shutdown()
//
//	// Find bridges
//	bridges, err := discovery.ScanForBridges(5 * time.Second)
//	for _, b := range bridges {
//	    fmt.Println(b.Instance, b.URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Bridges must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// Scans and advertisements are independent and may run concurrently.
package discovery
