package network

import (
	"errors"
	"fmt"
)

var (
	ErrNetworkDenied         = errors.New("client address is not on an office network")
	ErrNoNetworkConfigured   = fmt.Errorf("%w: no active office network is configured", ErrNetworkDenied)
	ErrInvalidAddress        = errors.New("address must be a dotted-quad IPv4 address")
	ErrInvalidSubnet         = errors.New("subnet must be a dotted mask or a /0-/32 prefix")
	ErrNetworkConfigNotFound = errors.New("network config not found")
)
