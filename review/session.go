package review

import (
	"github.com/tishamal/righttoread/common"
)

// Session holds the mutable working copy of one loaded page: block order per
// speed track plus per-block voice and markup edits. Exactly one session
// exists per open page; navigating away, resetting or reloading after a
// commit replaces it wholesale. All mutators are synchronous and are expected
// to be called from a single goroutine.
type Session struct {
	snapshot *PageSnapshot

	order  map[common.AudioSpeed][]BlockID
	markup map[BlockID]string
	voice  map[BlockID]string

	modified bool
	// bumped on reset and rebind so results of an in-flight save can be
	// recognized as stale and discarded
	generation uint64
}

func NewSession(snap *PageSnapshot) *Session {
	s := &Session{snapshot: snap}
	s.restore()
	return s
}

func (s *Session) restore() {
	s.order = make(map[common.AudioSpeed][]BlockID, len(s.snapshot.Blocks))
	for speed, blocks := range s.snapshot.Blocks {
		ids := make([]BlockID, len(blocks))
		for i := range blocks {
			ids[i] = blocks[i].ID
		}
		s.order[speed] = ids
	}
	s.markup = make(map[BlockID]string)
	s.voice = make(map[BlockID]string)
	s.modified = false
}

// Snapshot returns the immutable baseline this session edits against.
func (s *Session) Snapshot() *PageSnapshot {
	return s.snapshot
}

// Modified reports whether any edit has been made since load, reset or the
// last completed save.
func (s *Session) Modified() bool {
	return s.modified
}

// Generation changes whenever the session's baseline is replaced.
func (s *Session) Generation() uint64 {
	return s.generation
}

// Order returns the current display order of a speed track.
func (s *Session) Order(speed common.AudioSpeed) []BlockID {
	ids := s.order[speed]
	out := make([]BlockID, len(ids))
	copy(out, ids)
	return out
}

// Blocks returns the blocks of a speed track in current display order with
// pending voice and markup edits applied.
func (s *Session) Blocks(speed common.AudioSpeed) []Block {
	ids := s.order[speed]
	out := make([]Block, 0, len(ids))
	for _, id := range ids {
		b, ok := s.snapshot.BlockByID(id)
		if !ok {
			continue
		}
		b.Voice = s.Voice(id)
		b.Markup = s.Markup(id)
		out = append(out, b)
	}
	return out
}

// Voice returns the effective voice of a block - the pending edit if any,
// the loaded value otherwise.
func (s *Session) Voice(id BlockID) string {
	if v, ok := s.voice[id]; ok {
		return v
	}
	if b, ok := s.snapshot.BlockByID(id); ok {
		return b.Voice
	}
	return ""
}

// Markup returns the effective markup of a block.
func (s *Session) Markup(id BlockID) string {
	if m, ok := s.markup[id]; ok {
		return m
	}
	if b, ok := s.snapshot.BlockByID(id); ok {
		return b.Markup
	}
	return ""
}

// Reorder moves a single block of one speed track from one display position
// to another, preserving the relative order of all other blocks. Out of
// range indexes and moves to the same position are quietly ignored - they
// reflect UI input which is always boundable by list length.
func (s *Session) Reorder(speed common.AudioSpeed, from, to int) {
	ids := s.order[speed]
	if from == to || from < 0 || to < 0 || from >= len(ids) || to >= len(ids) {
		return
	}

	id := ids[from]
	ids = append(ids[:from], ids[from+1:]...)
	ids = append(ids[:to], append([]BlockID{id}, ids[to:]...)...)
	s.order[speed] = ids
	s.modified = true
}

// SetVoice records a voice edit for a block. Writing a value equal to the
// loaded one is allowed - the diff collapses such no-ops out later.
func (s *Session) SetVoice(id BlockID, voice string) {
	s.voice[id] = voice
	s.modified = true
}

// SetMarkup records a markup edit for a block.
func (s *Session) SetMarkup(id BlockID, markup string) {
	s.markup[id] = markup
	s.modified = true
}

// Reset discards every pending edit and restores the working copy to the
// loaded baseline. Idempotent and callable at any time - a save that is in
// flight when Reset is called has its eventual result discarded instead of
// applied.
func (s *Session) Reset() {
	s.restore()
	s.generation++
}

// Rebind adopts a freshly loaded snapshot as the new baseline, discarding
// all pending edits. Used after a completed save cycle, when the remote side
// is authoritative for block content and order.
func (s *Session) Rebind(snap *PageSnapshot) {
	s.snapshot = snap
	s.restore()
	s.generation++
}
