package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/network"
	networkService "github.com/cmlabs-hris/presence-backend-go/internal/service/network"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout accepted by -f:
//
//	networks:
//	  - name: HQ
//	    ip_address: 192.168.1.1
//	    subnet: /24
type seedFile struct {
	Networks []seedEntry `yaml:"networks"`
}

type seedEntry struct {
	Name      string  `yaml:"name"`
	IPAddress string  `yaml:"ip_address"`
	Subnet    *string `yaml:"subnet"`
	// IsActive defaults to true when omitted.
	IsActive *bool `yaml:"is_active"`
}

func (e seedEntry) config() network.Config {
	cfg := network.Config{
		Name:      strings.TrimSpace(e.Name),
		IPAddress: strings.TrimSpace(e.IPAddress),
		Subnet:    e.Subnet,
		IsActive:  true,
	}
	if e.IsActive != nil {
		cfg.IsActive = *e.IsActive
	}
	return cfg
}

// parseSeed decodes and validates every entry. Nothing is returned unless all entries are valid.
func parseSeed(r io.Reader) ([]network.Config, error) {
	var file seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if len(file.Networks) == 0 {
		return nil, fmt.Errorf("seed file has no networks")
	}

	configs := make([]network.Config, 0, len(file.Networks))
	seen := make(map[string]bool, len(file.Networks))
	for i, entry := range file.Networks {
		cfg := entry.config()
		if err := networkService.ValidateConfig(cfg); err != nil {
			return nil, fmt.Errorf("networks[%d] %q: %w", i, cfg.Name, err)
		}
		if seen[cfg.Name] {
			return nil, fmt.Errorf("networks[%d]: duplicate name %q", i, cfg.Name)
		}
		seen[cfg.Name] = true
		configs = append(configs, cfg)
	}
	return configs, nil
}
