package network

import "time"

// Config is an office network: an exact address or, when Subnet is set, the
// range it describes. Subnet is either a dotted mask ("255.255.255.0") or a
// prefix ("192.168.1.0/24", "/24").
type Config struct {
	ID        string
	Name      string
	IPAddress string
	Subnet    *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Policy controls admission when the configured networks cannot decide.
type Policy struct {
	// FailOpen admits every address while no active network is configured.
	FailOpen bool
	// Disabled skips network validation entirely.
	Disabled bool
	// AllowLoopback admits 127.0.0.0/8 regardless of configuration.
	AllowLoopback bool
	// RequirePrivate rejects public addresses before configs are consulted.
	RequirePrivate bool
}

// ManualByAdmin replaces the source address on administrative overrides.
const ManualByAdmin = "MANUAL_BY_ADMIN"
