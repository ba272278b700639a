package controller

import (
	"time"

	"github.com/amirasaad/fxconverter/pkg/domain"
)

// FetchStatus is the lifecycle stage of the rate table.
type FetchStatus int

const (
	StatusIdle FetchStatus = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s FetchStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name.
func (s FetchStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// FetchState is what the presentation layer renders.
// Rates is set only when Ready; Reason only when Failed.
type FetchState struct {
	Status    FetchStatus      `json:"status"`
	Base      string           `json:"base"`
	Rates     domain.RateTable `json:"rates,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	FetchedAt time.Time        `json:"fetched_at,omitempty"`
	Source    string           `json:"source,omitempty"`
}

// Ready reports whether a rate table is available.
func (s FetchState) Ready() bool {
	return s.Status == StatusReady
}

func (s FetchState) clone() FetchState {
	s.Rates = s.Rates.Clone()
	return s
}
