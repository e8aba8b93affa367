// Package review implements the block revision engine behind the page review
// workflow: loading a page's narration blocks from object storage, tracking an
// editor's in-memory changes against the loaded baseline, computing a minimal
// change set and driving the two-phase commit (text reconciliation, then audio
// synthesis and persistence).
package review

import (
	"fmt"

	"github.com/tishamal/righttoread/common"
)

// AudioID is the stable ordinal key of a block. Audio assets are persisted
// remotely keyed by ordinal and speed only, so this value never changes when
// blocks are reordered within a session.
type AudioID string

// BlockID identifies a block within one loaded page for ordering and edit
// tracking. It is derived from (page, ordinal, speed) on every load and is
// unique across the two speed tracks even when their ordinals coincide.
// Never persist it and never use it to resolve audio.
type BlockID string

// MakeBlockID derives a session-scoped block identity.
func MakeBlockID(page int, ordinal AudioID, speed common.AudioSpeed) BlockID {
	return BlockID(fmt.Sprintf("%d:%s:%s", page, ordinal, speed))
}

// Block is a single narratable text unit on a page.
type Block struct {
	ID               BlockID
	AudioID          AudioID
	OriginalPosition int
	Text             string
	Markup           string
	Voice            string
}
