package review

import (
	"github.com/tishamal/righttoread/common"
)

// ChangeSet is the minimal description of edits relative to the loaded
// baseline, in the exact wire shape the reconciliation service consumes.
// Every key is a stable block ordinal, never a display identity. A field is
// present only when it differs from the baseline.
type ChangeSet struct {
	ReorderedBlockIDs []AudioID          `json:"reordered_block_ids,omitempty"`
	VoiceChanges      map[AudioID]string `json:"voice_changes,omitempty"`
	SSMLChanges       map[AudioID]string `json:"ssml_changes,omitempty"`
}

// IsEmpty reports whether there is nothing to submit. Callers must skip the
// remote round-trip entirely for an empty change set.
func (c ChangeSet) IsEmpty() bool {
	return len(c.ReorderedBlockIDs) == 0 && len(c.VoiceChanges) == 0 && len(c.SSMLChanges) == 0
}

// Diff computes the change set of one speed track. It is a pure function of
// the session's baseline and working state - calling it twice without an
// intervening mutation yields structurally identical results.
func (s *Session) Diff(speed common.AudioSpeed) ChangeSet {

	var cs ChangeSet

	baseline := s.snapshot.baselineOrder(speed)
	working := make([]AudioID, 0, len(baseline))
	for _, id := range s.order[speed] {
		if b, ok := s.snapshot.BlockByID(id); ok {
			working = append(working, b.AudioID)
		}
	}

	if !equalOrder(baseline, working) {
		cs.ReorderedBlockIDs = working
	}

	for _, b := range s.snapshot.Blocks[speed] {
		if v, ok := s.voice[b.ID]; ok && v != b.Voice {
			if cs.VoiceChanges == nil {
				cs.VoiceChanges = make(map[AudioID]string)
			}
			cs.VoiceChanges[b.AudioID] = v
		}
		if m, ok := s.markup[b.ID]; ok && m != b.Markup {
			if cs.SSMLChanges == nil {
				cs.SSMLChanges = make(map[AudioID]string)
			}
			cs.SSMLChanges[b.AudioID] = m
		}
	}
	return cs
}

func equalOrder(a, b []AudioID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
