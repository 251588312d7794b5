package module

import (
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/domain"
)

// Ports exposed by the entities module for cross-module wiring
type Ports struct {
	Service    domain.ServicePort
	Aggregator domain.AggregatorPort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
