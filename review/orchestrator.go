package review

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/tishamal/righttoread/common"
)

// BlockPayload is the wire shape of one block exchanged with the
// reconciliation and synthesis service.
type BlockPayload struct {
	BlockID AudioID `json:"block_id"`
	Text    string  `json:"text"`
	SSML    string  `json:"ssml,omitempty"`
	Voice   string  `json:"voice_id,omitempty"`
}

// UpdateRequest asks the remote service to reconcile block text under the
// submitted edits. Pure reordering can break sentence-level continuity (a
// block opening with "However, ..." may no longer follow its antecedent), so
// the service rewrites affected blocks and returns the full updated set.
type UpdateRequest struct {
	Book           string
	Page           int
	OriginalBlocks []BlockPayload `json:"original_blocks"`
	UserChanges    ChangeSet      `json:"user_changes"`
}

type UpdateResult struct {
	UpdatedBlocks []BlockPayload `json:"updated_blocks"`
}

// SaveRequest asks the remote service to re-synthesize audio for blocks
// whose text or voice changed, upload the results and durably record the new
// order.
type SaveRequest struct {
	Book          string
	Page          int
	UpdatedBlocks []BlockPayload    `json:"updated_blocks"`
	Speed         common.AudioSpeed `json:"audio_speed"`
	VersionNotes  string            `json:"version_notes"`
}

// Reconciler is the remote service driving both commit phases.
type Reconciler interface {
	UpdateBlocks(ctx context.Context, req UpdateRequest) (UpdateResult, error)
	SaveChanges(ctx context.Context, req SaveRequest) error
}

// Orchestrator drives the save cycle of one reviewed page: diff, semantic
// text reconciliation, audio commit and the mandatory post-commit reload. At
// most one save may be in flight at a time - callers are expected to disable
// the save action while State() != idle.
type Orchestrator struct {
	loader *Loader
	remote Reconciler
	log    *zap.Logger

	mu    sync.Mutex
	state SaveState
}

func NewOrchestrator(loader *Loader, remote Reconciler, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		loader: loader,
		remote: remote,
		log:    log,
		state:  SaveStateIdle,
	}
}

// State returns the phase the orchestrator is currently in.
func (o *Orchestrator) State() SaveState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s SaveState) {
	o.mu.Lock()
	o.log.Debug("Save state transition", zap.Stringer("from", o.state), zap.Stringer("to", s))
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != SaveStateIdle {
		return ErrSaveInFlight
	}
	o.state = SaveStateDiffing
	return nil
}

// Save runs the full two-phase commit for one speed track of the page bound
// to sess.
//
// An empty diff skips both remote calls and returns ErrNoChanges. A failure
// of either phase leaves the working state untouched so the user can retry
// or reset - but a CommitError means the reconciliation phase already
// completed remotely and is not rolled back. On success the page is reloaded
// from storage and the session is rebound to the authoritative post-commit
// state; the orchestrator never assumes its local working copy matches what
// was actually persisted.
//
// If the session was reset or rebound while the save was in flight, the
// result is discarded and ErrStaleSave returned.
func (o *Orchestrator) Save(ctx context.Context, sess *Session, ref PageRef, book string, speed common.AudioSpeed) error {

	if err := o.begin(); err != nil {
		return err
	}

	fail := func(err error) error {
		o.setState(SaveStateFailed)
		o.setState(SaveStateIdle)
		return err
	}

	generation := sess.Generation()

	cs := sess.Diff(speed)
	if cs.IsEmpty() {
		o.log.Debug("Nothing to save", zap.Int("page", ref.Number), zap.Stringer("speed", speed))
		o.setState(SaveStateIdle)
		return ErrNoChanges
	}

	original := make([]BlockPayload, 0, len(sess.Snapshot().Blocks[speed]))
	for _, b := range sess.Snapshot().Blocks[speed] {
		original = append(original, BlockPayload{
			BlockID: b.AudioID,
			Text:    b.Text,
			SSML:    b.Markup,
			Voice:   b.Voice,
		})
	}

	o.setState(SaveStateSemanticCommit)
	updated, err := o.remote.UpdateBlocks(ctx, UpdateRequest{
		Book:           book,
		Page:           ref.Number,
		OriginalBlocks: original,
		UserChanges:    cs,
	})
	if err != nil {
		return fail(&ReconcileError{Err: err})
	}

	o.setState(SaveStateAudioCommit)
	err = o.remote.SaveChanges(ctx, SaveRequest{
		Book:          book,
		Page:          ref.Number,
		UpdatedBlocks: updated.UpdatedBlocks,
		Speed:         speed,
		VersionNotes:  sess.VersionNotes(speed, cs),
	})
	if err != nil {
		return fail(&CommitError{Err: err})
	}

	// both phases committed - pull the authoritative state back
	snap, err := o.loader.Load(ctx, ref)
	if err != nil {
		return fail(&CommitError{Err: err})
	}

	if sess.Generation() != generation {
		// the user reset or navigated away while we were saving, do not
		// resurrect state they have abandoned
		o.log.Warn("Discarding completed save, session has changed",
			zap.Int("page", ref.Number), zap.Stringer("speed", speed))
		o.setState(SaveStateIdle)
		return ErrStaleSave
	}

	sess.Rebind(snap)
	o.setState(SaveStateIdle)
	o.log.Info("Page changes saved",
		zap.Int("page", ref.Number),
		zap.Stringer("speed", speed),
		zap.Int("blocks", len(updated.UpdatedBlocks)))
	return nil
}
