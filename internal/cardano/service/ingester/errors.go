package ingester

import "errors"

var (
	// ErrResumeBlockNotFound is returned when the requested resume block is not stored.
	ErrResumeBlockNotFound = errors.New("resume block not found")
	// ErrRollbackTargetNotFound is returned when a rollback names an unknown block while
	// more than the genesis block is stored. The node is likely on a fork.
	ErrRollbackTargetNotFound = errors.New("rollback destination does not exist")
	ErrSinkStopped            = errors.New("sink stopped")
	ErrSinkNotStarted         = errors.New("sink not started")
)
