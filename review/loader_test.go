package review

import (
	"context"
	"errors"
	"testing"

	"github.com/tishamal/righttoread/common"
)

func TestLoader_Load(t *testing.T) {
	snap := loadFixture(t)

	if snap.Page != 3 {
		t.Errorf("Page = %d, want 3", snap.Page)
	}

	normal := snap.Blocks[common.AudioSpeedNormal]
	if len(normal) != 3 {
		t.Fatalf("normal blocks = %d, want 3", len(normal))
	}
	slow := snap.Blocks[common.AudioSpeedSlow]
	if len(slow) != 2 {
		t.Fatalf("slow blocks = %d, want 2", len(slow))
	}

	// manifest order carried over
	for i, want := range []string{"Block A.", "Block B.", "Block C."} {
		if normal[i].Text != want {
			t.Errorf("normal[%d].Text = %q, want %q", i, normal[i].Text, want)
		}
		if normal[i].OriginalPosition != i {
			t.Errorf("normal[%d].OriginalPosition = %d, want %d", i, normal[i].OriginalPosition, i)
		}
	}

	// voices come from the embedded markers
	if normal[1].Voice != "Ruth" {
		t.Errorf("normal[1].Voice = %q, want Ruth", normal[1].Voice)
	}
	if normal[0].Voice != "Joanna" {
		t.Errorf("normal[0].Voice = %q, want Joanna", normal[0].Voice)
	}

	// slow block without markup falls back to default voice and wrapped text
	if slow[1].Voice != DefaultVoice {
		t.Errorf("slow[1].Voice = %q, want %q", slow[1].Voice, DefaultVoice)
	}
	if v, ok := ExtractVoice(slow[1].Markup); !ok || v != DefaultVoice {
		t.Errorf("slow[1].Markup should carry the default voice, got %q", slow[1].Markup)
	}

	// image resolved
	if snap.Image.URL == "" {
		t.Error("Image URL not resolved")
	}
}

func TestLoader_IdentityDisambiguation(t *testing.T) {
	snap := loadFixture(t)

	seen := make(map[BlockID]bool)
	for _, speed := range []common.AudioSpeed{common.AudioSpeedNormal, common.AudioSpeedSlow} {
		for _, b := range snap.Blocks[speed] {
			if seen[b.ID] {
				t.Errorf("display identity %q collides across speed tracks", b.ID)
			}
			seen[b.ID] = true
		}
	}

	// ordinals may coincide numerically across tracks
	if snap.Blocks[common.AudioSpeedNormal][0].AudioID != snap.Blocks[common.AudioSpeedSlow][0].AudioID {
		t.Error("expected numerically equal ordinals across tracks in fixture")
	}
}

func TestLoader_MissingSlowManifest(t *testing.T) {
	ref := fixtureRef()
	ref.Manifests[common.AudioSpeedSlow] = ""

	snap, err := NewLoader(fixtureStore(), nil).Load(context.Background(), ref)
	if err != nil {
		t.Fatalf("Load() error = %v, missing slow manifest should be tolerated", err)
	}

	if len(snap.Blocks[common.AudioSpeedSlow]) != 0 {
		t.Errorf("slow blocks = %d, want 0", len(snap.Blocks[common.AudioSpeedSlow]))
	}
	if len(snap.Blocks[common.AudioSpeedNormal]) != 3 {
		t.Errorf("normal blocks = %d, want 3", len(snap.Blocks[common.AudioSpeedNormal]))
	}

	// every slow resolution is a soft miss
	for _, b := range snap.Blocks[common.AudioSpeedNormal] {
		slowID := MakeBlockID(ref.Number, b.AudioID, common.AudioSpeedSlow)
		if _, ok := snap.ResolveAudio(slowID, common.AudioSpeedSlow); ok {
			t.Errorf("ResolveAudio(%q, slow) = found, want not found", slowID)
		}
	}
}

func TestLoader_MalformedSlowManifest(t *testing.T) {
	store := fixtureStore()
	store.objects["pages/3/blocks_slow.json"] = []byte(`{broken`)

	snap, err := NewLoader(store, nil).Load(context.Background(), fixtureRef())
	if err != nil {
		t.Fatalf("Load() error = %v, broken slow manifest should degrade", err)
	}
	if len(snap.Blocks[common.AudioSpeedSlow]) != 0 {
		t.Errorf("slow blocks = %d, want 0", len(snap.Blocks[common.AudioSpeedSlow]))
	}
}

func TestLoader_NormalManifestFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeStore, *PageRef)
	}{
		{
			name: "missing key",
			setup: func(_ *fakeStore, ref *PageRef) {
				ref.Manifests[common.AudioSpeedNormal] = ""
			},
		},
		{
			name: "object absent",
			setup: func(s *fakeStore, _ *PageRef) {
				delete(s.objects, "pages/3/blocks_normal.json")
			},
		},
		{
			name: "malformed",
			setup: func(s *fakeStore, _ *PageRef) {
				s.objects["pages/3/blocks_normal.json"] = []byte(`not json`)
			},
		},
		{
			name: "transport failure",
			setup: func(s *fakeStore, _ *PageRef) {
				s.fetchErr = map[string]error{"pages/3/blocks_normal.json": errors.New("connection refused")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := fixtureStore()
			ref := fixtureRef()
			tt.setup(store, &ref)

			_, err := NewLoader(store, nil).Load(context.Background(), ref)
			if err == nil {
				t.Fatal("Load() expected error for broken normal track")
			}

			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("Load() error type = %T, want *LoadError", err)
			}
			if le.Page != 3 {
				t.Errorf("LoadError.Page = %d, want 3", le.Page)
			}
			if le.Speed != common.AudioSpeedNormal {
				t.Errorf("LoadError.Speed = %s, want normal", le.Speed)
			}
		})
	}
}

func TestLoader_ResolveFailureIsFatal(t *testing.T) {
	store := fixtureStore()
	store.resolveErr = errors.New("presign denied")

	_, err := NewLoader(store, nil).Load(context.Background(), fixtureRef())
	if err == nil {
		t.Fatal("Load() expected error when asset URLs cannot be resolved")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("Load() error type = %T, want *LoadError", err)
	}
}

func TestLoader_WithDefaultVoice(t *testing.T) {
	l := NewLoader(fixtureStore(), nil, WithDefaultVoice("Stephen"))

	snap, err := l.Load(context.Background(), fixtureRef())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// slow[1] has no markup, so it takes the configured default
	slow := snap.Blocks[common.AudioSpeedSlow]
	if slow[1].Voice != "Stephen" {
		t.Errorf("slow[1].Voice = %q, want Stephen", slow[1].Voice)
	}
	// blocks with an embedded marker keep it
	if slow[0].Voice != "Joanna" {
		t.Errorf("slow[0].Voice = %q, want Joanna", slow[0].Voice)
	}
}

func TestSnapshot_ResolveAudio(t *testing.T) {
	snap := loadFixture(t)

	b := snap.Blocks[common.AudioSpeedNormal][1]
	ref, ok := snap.ResolveAudio(b.ID, common.AudioSpeedNormal)
	if !ok {
		t.Fatalf("ResolveAudio(%q, normal) not found", b.ID)
	}
	if ref.Key != "pages/3/audio_normal/1.mp3" {
		t.Errorf("ResolveAudio key = %q, want pages/3/audio_normal/1.mp3", ref.Key)
	}
	if ref.URL == "" {
		t.Error("ResolveAudio URL empty")
	}

	// slow track resolves independently of normal
	sb := snap.Blocks[common.AudioSpeedSlow][1]
	sref, ok := snap.ResolveAudio(sb.ID, common.AudioSpeedSlow)
	if !ok {
		t.Fatalf("ResolveAudio(%q, slow) not found", sb.ID)
	}
	if sref.Key != "pages/3/audio_slow/1.mp3" {
		t.Errorf("ResolveAudio key = %q, want pages/3/audio_slow/1.mp3", sref.Key)
	}

	// unknown identity is a soft miss, not an error
	if _, ok := snap.ResolveAudio("9:9:normal", common.AudioSpeedNormal); ok {
		t.Error("ResolveAudio for unknown identity should not be found")
	}
}
