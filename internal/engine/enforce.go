package engine

import (
	"github.com/foqos/foqos/internal/logging"
	"github.com/foqos/foqos/internal/model"
)

// Enforcer is the external capability that applies and lifts app blocking.
// Failures are non-fatal to the session record.
type Enforcer interface {
	Activate(cfg model.StrategyConfig) error
	Deactivate() error
}

// LogEnforcer is an Enforcer that only records activation calls. The CLI uses
// it where no OS-level blocking capability is wired in.
type LogEnforcer struct{}

// NewLogEnforcer creates a new logging enforcer.
func NewLogEnforcer() *LogEnforcer {
	return &LogEnforcer{}
}

// Activate logs the strategy that would be enforced.
func (e *LogEnforcer) Activate(cfg model.StrategyConfig) error {
	logging.Info("enforcement activated", logging.KeyStrategy, string(cfg.Kind))
	return nil
}

// Deactivate logs that enforcement was lifted.
func (e *LogEnforcer) Deactivate() error {
	logging.Info("enforcement deactivated")
	return nil
}
