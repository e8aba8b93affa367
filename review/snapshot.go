package review

import (
	"github.com/tishamal/righttoread/common"
)

// AssetRef points at one stored object: its storage key plus a temporary
// access URL minted at load time.
type AssetRef struct {
	Key string
	URL string
}

type assetKey struct {
	Ordinal AudioID
	Speed   common.AudioSpeed
}

// PageSnapshot is the as-loaded state of one page: the page image, the
// ordered block lists of both speed tracks and the persisted audio assets
// joined by (ordinal, speed). Immutable once loaded - it is the baseline
// every edit is diffed against.
type PageSnapshot struct {
	Page   int
	Image  AssetRef
	Blocks map[common.AudioSpeed][]Block

	assets map[assetKey]AssetRef
	byID   map[BlockID]*Block
}

func newPageSnapshot(page int) *PageSnapshot {
	return &PageSnapshot{
		Page:   page,
		Blocks: make(map[common.AudioSpeed][]Block),
		assets: make(map[assetKey]AssetRef),
		byID:   make(map[BlockID]*Block),
	}
}

func (s *PageSnapshot) addBlocks(speed common.AudioSpeed, blocks []Block) {
	s.Blocks[speed] = blocks
	for i := range blocks {
		s.byID[blocks[i].ID] = &s.Blocks[speed][i]
	}
}

// BlockByID returns the loaded block for the given identity.
func (s *PageSnapshot) BlockByID(id BlockID) (Block, bool) {
	if b, ok := s.byID[id]; ok {
		return *b, true
	}
	return Block{}, false
}

// ResolveAudio maps a block identity and speed selection to the persisted
// audio asset. Resolution goes through the block's stable ordinal, so a
// pending unsaved reorder never changes what a block plays - only a completed
// audio commit does. Absence of an asset is an expected outcome, not an
// error.
func (s *PageSnapshot) ResolveAudio(id BlockID, speed common.AudioSpeed) (AssetRef, bool) {
	for i := range s.Blocks[speed] {
		if s.Blocks[speed][i].ID != id {
			continue
		}
		ref, ok := s.assets[assetKey{Ordinal: s.Blocks[speed][i].AudioID, Speed: speed}]
		return ref, ok
	}
	return AssetRef{}, false
}

// baselineOrder returns ordinals of a speed track in manifest order.
func (s *PageSnapshot) baselineOrder(speed common.AudioSpeed) []AudioID {
	blocks := s.Blocks[speed]
	out := make([]AudioID, len(blocks))
	for i := range blocks {
		out[i] = blocks[i].AudioID
	}
	return out
}
