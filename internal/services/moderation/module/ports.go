package module

import (
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/domain"
	msvc "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/service"
)

// Ports exposed by the moderation module for cross-module wiring
type Ports struct {
	Service domain.ServicePort
	Queue   *msvc.Queue
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
