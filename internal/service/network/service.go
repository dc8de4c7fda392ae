package network

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/network"
)

type NetworkServiceImpl struct {
	network.ConfigRepository
	policy network.Policy
}

func NewNetworkService(repo network.ConfigRepository, policy network.Policy) network.Service {
	return &NetworkServiceImpl{
		ConfigRepository: repo,
		policy:           policy,
	}
}

// Check implements network.Checker.
func (s *NetworkServiceImpl) Check(ctx context.Context, clientIP string) error {
	if s.policy.Disabled {
		return nil
	}

	ip := Normalize(clientIP)
	if !IsValidIPv4(ip) {
		return fmt.Errorf("%w: %q", network.ErrNetworkDenied, clientIP)
	}
	if s.policy.AllowLoopback && IsLoopback(ip) {
		return nil
	}
	if s.policy.RequirePrivate && !IsPrivate(ip) {
		return fmt.Errorf("%w: public address %s", network.ErrNetworkDenied, ip)
	}

	configs, err := s.ConfigRepository.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active network configs: %w", err)
	}

	if len(configs) == 0 {
		if s.policy.FailOpen {
			return nil
		}
		return network.ErrNoNetworkConfigured
	}

	if !Allowed(ip, configs) {
		return network.ErrNetworkDenied
	}
	return nil
}

// Classify implements network.Service.
func (s *NetworkServiceImpl) Classify(ctx context.Context, clientIP string) (network.Classification, error) {
	ip := Normalize(clientIP)
	c := network.Classification{
		IP:       ip,
		Valid:    IsValidIPv4(ip),
		Private:  IsPrivate(ip),
		Loopback: IsLoopback(ip),
	}

	err := s.Check(ctx, ip)
	switch {
	case err == nil:
		c.Allowed = true
	case errors.Is(err, network.ErrNetworkDenied):
		c.DenyReason = err.Error()
	default:
		return network.Classification{}, err
	}
	return c, nil
}
