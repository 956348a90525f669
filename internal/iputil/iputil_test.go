package iputil

import (
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCIDRs(t *testing.T) {
	tests := []struct {
		name        string
		input       []string
		expectError bool
		expectCount int
	}{
		{
			name:        "Empty input",
			input:       []string{},
			expectError: false,
			expectCount: 0,
		},
		{
			name:        "Nil input",
			input:       nil,
			expectError: false,
			expectCount: 0,
		},
		{
			name:        "Single IPv4 address",
			input:       []string{"192.168.1.1"},
			expectError: false,
			expectCount: 1,
		},
		{
			name:        "Single IPv4 CIDR",
			input:       []string{"192.168.1.0/24"},
			expectError: false,
			expectCount: 1,
		},
		{
			name:        "Single IPv6 address",
			input:       []string{"2001:db8::1"},
			expectError: false,
			expectCount: 1,
		},
		{
			name:        "Multiple mixed entries",
			input:       []string{"192.168.1.1", "10.0.0.0/8", "2001:db8::1"},
			expectError: false,
			expectCount: 3,
		},
		{
			name:        "Invalid IP format",
			input:       []string{"not-an-ip"},
			expectError: true,
			expectCount: 0,
		},
		{
			name:        "Invalid CIDR format",
			input:       []string{"192.168.1.1/99"},
			expectError: true,
			expectCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseCIDRs(tt.input)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				if tt.expectCount == 0 {
					assert.Nil(t, result)
				} else {
					require.NotNil(t, result)
					assert.Len(t, result, tt.expectCount)
				}
			}
		})
	}
}

func TestParseCIDRs_SingleIPConversion(t *testing.T) {
	t.Run("IPv4 single IP becomes /32", func(t *testing.T) {
		result, err := ParseCIDRs([]string{"192.168.1.1"})
		require.NoError(t, err)
		require.Len(t, result, 1)

		ones, bits := result[0].Mask.Size()
		assert.Equal(t, 32, ones)
		assert.Equal(t, 32, bits)
	})

	t.Run("IPv6 single IP becomes /128", func(t *testing.T) {
		result, err := ParseCIDRs([]string{"2001:db8::1"})
		require.NoError(t, err)
		require.Len(t, result, 1)

		ones, bits := result[0].Mask.Size()
		assert.Equal(t, 128, ones)
		assert.Equal(t, 128, bits)
	})
}

func TestIsIPInAnyCIDR(t *testing.T) {
	cidrs, err := ParseCIDRs([]string{
		"192.168.1.0/24",
		"10.0.0.0/8",
		"2001:db8::/32",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		ip       string
		expected bool
	}{
		{name: "IP in first CIDR", ip: "192.168.1.100", expected: true},
		{name: "IP in second CIDR", ip: "10.5.10.20", expected: true},
		{name: "IPv6 in CIDR", ip: "2001:db8::1234", expected: true},
		{name: "IP not in any CIDR", ip: "1.2.3.4", expected: false},
		{name: "Neighboring private range", ip: "192.168.2.1", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			require.NotNil(t, ip, "Failed to parse IP: %s", tt.ip)

			assert.Equal(t, tt.expected, IsIPInAnyCIDR(ip, cidrs))
		})
	}

	t.Run("Nil IP", func(t *testing.T) {
		assert.False(t, IsIPInAnyCIDR(nil, cidrs))
	})
	t.Run("Nil CIDR list", func(t *testing.T) {
		assert.False(t, IsIPInAnyCIDR(net.ParseIP("192.168.1.1"), nil))
	})
}

func TestGetClientIP(t *testing.T) {
	trustedProxies, err := ParseCIDRs([]string{"10.0.0.1", "172.16.0.0/12"})
	require.NoError(t, err)

	tests := []struct {
		name           string
		remoteAddr     string
		xForwardedFor  string
		trustedProxies []*net.IPNet
		expectedIP     string
	}{
		{
			name:           "XFF ignored from untrusted source",
			remoteAddr:     "1.2.3.4:12345",
			xForwardedFor:  "99.99.99.99",
			trustedProxies: trustedProxies,
			expectedIP:     "1.2.3.4",
		},
		{
			name:           "XFF accepted from trusted proxy",
			remoteAddr:     "10.0.0.1:12345",
			xForwardedFor:  "99.99.99.99",
			trustedProxies: trustedProxies,
			expectedIP:     "99.99.99.99",
		},
		{
			name:           "XFF accepted from trusted proxy range",
			remoteAddr:     "172.16.5.1:443",
			xForwardedFor:  "8.8.8.8",
			trustedProxies: trustedProxies,
			expectedIP:     "8.8.8.8",
		},
		{
			name:           "First XFF entry wins",
			remoteAddr:     "10.0.0.1:12345",
			xForwardedFor:  "203.0.113.7, 10.0.0.1",
			trustedProxies: trustedProxies,
			expectedIP:     "203.0.113.7",
		},
		{
			name:           "Garbage XFF falls back to remote address",
			remoteAddr:     "10.0.0.1:12345",
			xForwardedFor:  "not-an-ip",
			trustedProxies: trustedProxies,
			expectedIP:     "10.0.0.1",
		},
		{
			name:           "No XFF header",
			remoteAddr:     "203.0.113.50:8080",
			trustedProxies: trustedProxies,
			expectedIP:     "203.0.113.50",
		},
		{
			name:          "No trusted proxies configured",
			remoteAddr:    "10.0.0.1:12345",
			xForwardedFor: "99.99.99.99",
			expectedIP:    "10.0.0.1",
		},
		{
			name:           "RemoteAddr without port",
			remoteAddr:     "203.0.113.50",
			trustedProxies: trustedProxies,
			expectedIP:     "203.0.113.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/log", nil)
			require.NoError(t, err)
			req.RemoteAddr = tt.remoteAddr
			if tt.xForwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwardedFor)
			}

			assert.Equal(t, tt.expectedIP, GetClientIP(req, tt.trustedProxies))
		})
	}
}
