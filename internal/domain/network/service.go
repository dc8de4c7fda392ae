package network

import "context"

// Checker decides whether a client address may perform an in-office action.
type Checker interface {
	Check(ctx context.Context, clientIP string) error
}

// Classification describes a client address for diagnostics.
type Classification struct {
	IP         string `json:"ip"`
	Valid      bool   `json:"valid"`
	Private    bool   `json:"private"`
	Loopback   bool   `json:"loopback"`
	Allowed    bool   `json:"allowed"`
	DenyReason string `json:"deny_reason,omitempty"`
}

type Service interface {
	Checker
	Classify(ctx context.Context, clientIP string) (Classification, error)
}
