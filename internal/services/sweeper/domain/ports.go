// Package domain holds the sweeper ports
package domain

import "context"

// RunnerPort drives the maintenance loops
type RunnerPort interface {
	// Run blocks until ctx cancels
	Run(ctx context.Context) error

	// Audit runs one consistency pass immediately
	Audit(ctx context.Context) error
}
