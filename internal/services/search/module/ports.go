package module

import (
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/domain"
	ssvc "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/service"
)

// Ports exposed by the search module for cross-module wiring
type Ports struct {
	Service domain.ServicePort
	Indexer *ssvc.Indexer
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
