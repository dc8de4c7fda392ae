package network

import (
	"strconv"
	"strings"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/network"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// Normalize maps IPv6 loopback and IPv4-mapped IPv6 addresses to their IPv4 form.
func Normalize(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "::1" {
		return "127.0.0.1"
	}
	if len(ip) > 7 && strings.EqualFold(ip[:7], "::ffff:") {
		return ip[7:]
	}
	return ip
}

// parseIPv4 converts a dotted quad to its 32-bit value.
func parseIPv4(s string) (uint32, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return 0, false
	}
	var addr uint32
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return 0, false
		}
		for _, c := range p {
			if c < '0' || c > '9' {
				return 0, false
			}
		}
		octet, err := strconv.Atoi(p)
		if err != nil || octet > 255 {
			return 0, false
		}
		addr = addr<<8 | uint32(octet)
	}
	return addr, true
}

func prefixMask(bits int) uint32 {
	if bits == 0 {
		return 0
	}
	return ^uint32(0) << uint(32-bits)
}

// parseSubnet returns the network and mask described by subnet. A "/n" subnet
// takes its network from ipAddress.
func parseSubnet(ipAddress, subnet string) (netAddr, mask uint32, ok bool) {
	subnet = strings.TrimSpace(subnet)

	if i := strings.LastIndexByte(subnet, '/'); i >= 0 {
		base := strings.TrimSpace(subnet[:i])
		if base == "" {
			base = ipAddress
		}
		bitsStr := strings.TrimSpace(subnet[i+1:])
		if bitsStr == "" || len(bitsStr) > 2 {
			return 0, 0, false
		}
		bits, err := strconv.Atoi(bitsStr)
		if err != nil || bits < 0 || bits > 32 {
			return 0, 0, false
		}
		netAddr, ok = parseIPv4(Normalize(base))
		if !ok {
			return 0, 0, false
		}
		return netAddr, prefixMask(bits), true
	}

	mask, ok = parseIPv4(subnet)
	if !ok {
		return 0, 0, false
	}
	netAddr, ok = parseIPv4(ipAddress)
	if !ok {
		return 0, 0, false
	}
	return netAddr, mask, true
}

// Allowed reports whether clientIP belongs to any active config. Malformed
// addresses and subnets never match.
func Allowed(clientIP string, configs []network.Config) bool {
	ip := Normalize(clientIP)
	addr, ok := parseIPv4(ip)
	if !ok {
		return false
	}

	for _, cfg := range configs {
		if !cfg.IsActive {
			continue
		}
		cfgIP := Normalize(cfg.IPAddress)
		if ip == cfgIP {
			return true
		}
		if cfg.Subnet == nil || strings.TrimSpace(*cfg.Subnet) == "" {
			continue
		}
		netAddr, mask, ok := parseSubnet(cfgIP, *cfg.Subnet)
		if !ok {
			continue
		}
		if addr&mask == netAddr&mask {
			return true
		}
	}
	return false
}

// IsValidIPv4 reports whether ip, after normalization, is a dotted quad.
func IsValidIPv4(ip string) bool {
	_, ok := parseIPv4(Normalize(ip))
	return ok
}

// IsPrivate reports RFC 1918 and loopback addresses.
func IsPrivate(ip string) bool {
	addr, ok := parseIPv4(Normalize(ip))
	if !ok {
		return false
	}
	switch {
	case addr>>24 == 10:
		return true
	case addr>>20 == 0xAC1: // 172.16.0.0/12
		return true
	case addr>>16 == 0xC0A8: // 192.168.0.0/16
		return true
	case addr>>24 == 127:
		return true
	}
	return false
}

func IsLoopback(ip string) bool {
	addr, ok := parseIPv4(Normalize(ip))
	return ok && addr>>24 == 127
}

// ValidateConfig checks a network config before it is persisted.
func ValidateConfig(cfg network.Config) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(cfg.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !IsValidIPv4(cfg.IPAddress) {
		errs = append(errs, validator.ValidationError{
			Field:   "ip_address",
			Message: network.ErrInvalidAddress.Error(),
		})
	} else if cfg.Subnet != nil && strings.TrimSpace(*cfg.Subnet) != "" {
		if _, _, ok := parseSubnet(Normalize(cfg.IPAddress), *cfg.Subnet); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "subnet",
				Message: network.ErrInvalidSubnet.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
