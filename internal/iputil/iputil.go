package iputil

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ParseCIDRs parses a list of string representations of IP addresses or CIDR notations.
func ParseCIDRs(cidrStrings []string) ([]*net.IPNet, error) {
	if len(cidrStrings) == 0 {
		return nil, nil
	}

	cidrs := make([]*net.IPNet, 0, len(cidrStrings))
	for _, cidrStr := range cidrStrings {
		// Single IP addresses get a host mask
		ip := net.ParseIP(cidrStr)
		if ip != nil {
			var mask net.IPMask
			if ip.To4() != nil {
				mask = net.CIDRMask(32, 32)
			} else {
				mask = net.CIDRMask(128, 128)
			}
			cidrs = append(cidrs, &net.IPNet{IP: ip, Mask: mask})
			continue
		}
		_, ipNet, err := net.ParseCIDR(cidrStr)
		if err != nil {
			return nil, fmt.Errorf("invalid IP/CIDR format: %s (%w)", cidrStr, err)
		}
		cidrs = append(cidrs, ipNet)
	}
	return cidrs, nil
}

// IsIPInAnyCIDR checks if the given IP address falls within any of the provided CIDR ranges.
func IsIPInAnyCIDR(ip net.IP, cidrs []*net.IPNet) bool {
	if ip == nil || len(cidrs) == 0 {
		return false
	}
	for _, cidr := range cidrs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}

// GetClientIP extracts the client IP address from the request. The
// X-Forwarded-For header is honored only when the immediate sender is a
// trusted proxy; otherwise RemoteAddr wins.
func GetClientIP(r *http.Request, trustedProxies []*net.IPNet) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		remoteIPStr, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			remoteIPStr = r.RemoteAddr
		}
		remoteIP := net.ParseIP(remoteIPStr)
		if remoteIP != nil && IsIPInAnyCIDR(remoteIP, trustedProxies) {
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if net.ParseIP(first) != nil {
				return first
			}
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
