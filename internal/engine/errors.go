package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/dshills/trackedit/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrTxDone indicates a Tx used after its transaction returned.
	ErrTxDone = errors.New("transaction already finished")
)
