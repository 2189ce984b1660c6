// Package discovery advertises a relay on the local network over mDNS.
package discovery

import (
	"fmt"
	"net"
	"os"

	"github.com/hashicorp/mdns"
)

const ServiceType = "_boardrelay._tcp"

// Advertise announces the relay on port until the returned server is shut
// down.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	service, err := newService(host, "", port, nil)
	if err != nil {
		return nil, err
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mdns server: %w", err)
	}
	return server, nil
}

// newService builds the zone. Empty hostName and nil ips are detected.
func newService(instance, hostName string, port int, ips []net.IP) (*mdns.MDNSService, error) {
	service, err := mdns.NewMDNSService(instance, ServiceType, "", hostName, port, ips, []string{"board relay", "ws=/ws/rooms/{roomId}"})
	if err != nil {
		return nil, fmt.Errorf("create mdns service: %w", err)
	}
	return service, nil
}
