package review

import (
	"testing"

	"github.com/tishamal/righttoread/common"
)

func TestSession_InitialState(t *testing.T) {
	sess := NewSession(loadFixture(t))

	if sess.Modified() {
		t.Error("fresh session should not be modified")
	}

	order := sess.Order(common.AudioSpeedNormal)
	if len(order) != 3 {
		t.Fatalf("normal order length = %d, want 3", len(order))
	}
	for i, b := range sess.Snapshot().Blocks[common.AudioSpeedNormal] {
		if order[i] != b.ID {
			t.Errorf("order[%d] = %q, want %q", i, order[i], b.ID)
		}
	}
}

func TestSession_Reorder(t *testing.T) {
	sess := NewSession(loadFixture(t))
	baseline := sess.Order(common.AudioSpeedNormal)

	// move C (index 2) to the front
	sess.Reorder(common.AudioSpeedNormal, 2, 0)

	got := sess.Order(common.AudioSpeedNormal)
	want := []BlockID{baseline[2], baseline[0], baseline[1]}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !sess.Modified() {
		t.Error("reorder should mark the session modified")
	}
}

func TestSession_Reorder_NoOps(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
	}{
		{"same position", 1, 1},
		{"negative from", -1, 0},
		{"negative to", 0, -1},
		{"from out of range", 3, 0},
		{"to out of range", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := NewSession(loadFixture(t))
			baseline := sess.Order(common.AudioSpeedNormal)

			sess.Reorder(common.AudioSpeedNormal, tt.from, tt.to)

			got := sess.Order(common.AudioSpeedNormal)
			for i := range baseline {
				if got[i] != baseline[i] {
					t.Errorf("order[%d] = %q, want %q (no-op expected)", i, got[i], baseline[i])
				}
			}
			if sess.Modified() {
				t.Error("no-op reorder should not mark the session modified")
			}
		})
	}
}

func TestSession_Reorder_PermutationInvariant(t *testing.T) {
	sess := NewSession(loadFixture(t))
	baseline := sess.Order(common.AudioSpeedNormal)

	moves := []struct{ from, to int }{
		{2, 0}, {0, 1}, {1, 2}, {2, 1}, {0, 2}, {1, 0},
	}
	for _, m := range moves {
		sess.Reorder(common.AudioSpeedNormal, m.from, m.to)
	}

	got := sess.Order(common.AudioSpeedNormal)
	if len(got) != len(baseline) {
		t.Fatalf("order length = %d, want %d", len(got), len(baseline))
	}
	seen := make(map[BlockID]int)
	for _, id := range got {
		seen[id]++
	}
	for _, id := range baseline {
		if seen[id] != 1 {
			t.Errorf("identity %q appears %d times after reorders, want exactly once", id, seen[id])
		}
	}
}

func TestSession_ReorderDoesNotCrossTracks(t *testing.T) {
	sess := NewSession(loadFixture(t))
	slowBefore := sess.Order(common.AudioSpeedSlow)

	sess.Reorder(common.AudioSpeedNormal, 2, 0)

	slowAfter := sess.Order(common.AudioSpeedSlow)
	for i := range slowBefore {
		if slowAfter[i] != slowBefore[i] {
			t.Errorf("slow order[%d] changed after reordering the normal track", i)
		}
	}
}

func TestSession_PlaybackStableUnderReorder(t *testing.T) {
	snap := loadFixture(t)
	sess := NewSession(snap)

	b := snap.Blocks[common.AudioSpeedNormal][2]
	before, ok := snap.ResolveAudio(b.ID, common.AudioSpeedNormal)
	if !ok {
		t.Fatal("fixture block has no audio")
	}

	// an unsaved reorder must not relocate audio
	sess.Reorder(common.AudioSpeedNormal, 2, 0)

	after, ok := snap.ResolveAudio(b.ID, common.AudioSpeedNormal)
	if !ok {
		t.Fatal("audio lost after reorder")
	}
	if after != before {
		t.Errorf("ResolveAudio changed under unsaved reorder: %v != %v", after, before)
	}
}

func TestSession_VoiceAndMarkupEdits(t *testing.T) {
	sess := NewSession(loadFixture(t))
	b := sess.Snapshot().Blocks[common.AudioSpeedNormal][1]

	if sess.Voice(b.ID) != "Ruth" {
		t.Fatalf("baseline voice = %q, want Ruth", sess.Voice(b.ID))
	}

	sess.SetVoice(b.ID, "Joey")
	if sess.Voice(b.ID) != "Joey" {
		t.Errorf("Voice() = %q after edit, want Joey", sess.Voice(b.ID))
	}

	sess.SetMarkup(b.ID, "<speak>changed</speak>")
	if sess.Markup(b.ID) != "<speak>changed</speak>" {
		t.Errorf("Markup() = %q after edit", sess.Markup(b.ID))
	}

	if !sess.Modified() {
		t.Error("edits should mark the session modified")
	}

	// edits surface in the ordered working view
	blocks := sess.Blocks(common.AudioSpeedNormal)
	if blocks[1].Voice != "Joey" || blocks[1].Markup != "<speak>changed</speak>" {
		t.Errorf("Blocks() does not reflect edits: %+v", blocks[1])
	}
	// but the baseline stays untouched
	if sess.Snapshot().Blocks[common.AudioSpeedNormal][1].Voice != "Ruth" {
		t.Error("edit leaked into the immutable snapshot")
	}
}

func TestSession_Reset(t *testing.T) {
	sess := NewSession(loadFixture(t))
	baseline := sess.Order(common.AudioSpeedNormal)
	b := sess.Snapshot().Blocks[common.AudioSpeedNormal][0]

	sess.Reorder(common.AudioSpeedNormal, 0, 2)
	sess.SetVoice(b.ID, "Emma")
	sess.SetMarkup(b.ID, "<speak>edited</speak>")

	gen := sess.Generation()
	sess.Reset()

	if sess.Modified() {
		t.Error("Reset() should clear the modified flag")
	}
	if sess.Generation() == gen {
		t.Error("Reset() should advance the generation")
	}

	got := sess.Order(common.AudioSpeedNormal)
	for i := range baseline {
		if got[i] != baseline[i] {
			t.Errorf("order[%d] = %q after reset, want %q", i, got[i], baseline[i])
		}
	}
	if sess.Voice(b.ID) != b.Voice {
		t.Errorf("Voice() = %q after reset, want %q", sess.Voice(b.ID), b.Voice)
	}
	if sess.Markup(b.ID) != b.Markup {
		t.Errorf("Markup() = %q after reset, want baseline markup", sess.Markup(b.ID))
	}

	// idempotent
	sess.Reset()
	if sess.Modified() {
		t.Error("second Reset() should be a no-op on the modified flag")
	}
}

func TestSession_EmptySlowTrackOperations(t *testing.T) {
	ref := fixtureRef()
	ref.Manifests[common.AudioSpeedSlow] = ""

	snap, err := NewLoader(fixtureStore(), nil).Load(t.Context(), ref)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	sess := NewSession(snap)

	// all slow operations are no-ops
	sess.Reorder(common.AudioSpeedSlow, 0, 1)
	if sess.Modified() {
		t.Error("reorder on empty track should not modify the session")
	}
	if cs := sess.Diff(common.AudioSpeedSlow); !cs.IsEmpty() {
		t.Errorf("Diff on empty track = %+v, want empty", cs)
	}
	if len(sess.Blocks(common.AudioSpeedSlow)) != 0 {
		t.Error("Blocks on empty track should be empty")
	}
}
