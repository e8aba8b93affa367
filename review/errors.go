package review

import (
	"errors"
	"fmt"

	"github.com/tishamal/righttoread/common"
)

var (
	// ErrObjectNotFound must be returned (possibly wrapped) by ObjectStore
	// implementations when a requested key does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrSaveInFlight is returned when a save is requested while another one
	// is still running for the same page.
	ErrSaveInFlight = errors.New("save already in progress")

	// ErrNoChanges is returned when there is nothing to submit - the working
	// state matches the loaded baseline.
	ErrNoChanges = errors.New("nothing to save")

	// ErrStaleSave is returned when a save completed remotely but the session
	// was reset or rebound while it was in flight, so its result was discarded.
	ErrStaleSave = errors.New("save result discarded, session has changed")
)

// LoadError reports a page whose blocks could not be loaded.
type LoadError struct {
	Page  int
	Speed common.AudioSpeed
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("unable to load page %d (%s): %v", e.Page, e.Speed, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ReconcileError reports a failure of the text reconciliation phase. The
// working state is left untouched so the user can retry or reset.
type ReconcileError struct {
	Err error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("text reconciliation failed: %v", e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// CommitError reports a failure of the audio synthesis/persistence phase.
// The reconciliation phase has already completed remotely and is not rolled
// back - server-side text may differ from the loaded baseline, so a reload
// should be recommended to the user.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("audio commit failed: %v", e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
