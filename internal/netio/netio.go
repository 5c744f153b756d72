// Package netio implements the connection supervisor's address-selection
// half: binding a dial to a specific local interface and round-robining
// across a set of remote addresses, so N workers spread their connections
// across both local interfaces and remote endpoints instead of piling
// every worker onto the same path.
package netio

import (
	"fmt"
	"net"
	"sync/atomic"
)

// AddrPool round-robins through a fixed set of remote addresses.
type AddrPool struct {
	addrs []string
	next  uint64
}

// NewAddrPool builds a pool over addrs, visited in order and then
// wrapping.
func NewAddrPool(addrs []string) *AddrPool {
	return &AddrPool{addrs: addrs}
}

// Next returns the next address in round-robin order.
func (p *AddrPool) Next() string {
	i := atomic.AddUint64(&p.next, 1) - 1
	return p.addrs[i%uint64(len(p.addrs))]
}

// LocalInterfaceAddr resolves name (an interface name, e.g. "eth0") to a
// local TCP address suitable for net.Dialer.LocalAddr, for a worker that
// must originate its connections from a specific NIC.
func LocalInterfaceAddr(name string) (net.Addr, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("netio: interface %s: %w", name, err)
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("netio: addrs for %s: %w", name, err)
	}
	for _, a := range addrs {
		if ipNet, ok := a.(*net.IPNet); ok && ipNet.IP.To4() != nil {
			return &net.TCPAddr{IP: ipNet.IP}, nil
		}
	}
	return nil, fmt.Errorf("netio: no ipv4 address on interface %s", name)
}
