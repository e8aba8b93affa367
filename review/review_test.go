package review

import (
	"context"
	"fmt"
	"testing"

	"github.com/tishamal/righttoread/common"
)

// fakeStore is an in-memory ObjectStore for tests.
type fakeStore struct {
	objects    map[string][]byte
	fetchErr   map[string]error
	resolveErr error
}

func (f *fakeStore) Fetch(_ context.Context, key string) ([]byte, error) {
	if err, ok := f.fetchErr[key]; ok {
		return nil, err
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("fetch %s: %w", key, ErrObjectNotFound)
	}
	return data, nil
}

func (f *fakeStore) ResolveURLs(_ context.Context, keys []string) (map[string]string, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = "https://assets.test/" + k
	}
	return out, nil
}

// fixtureRef describes a page with three normal blocks (A, B, C) and two
// slow blocks, with audio persisted for every block.
func fixtureRef() PageRef {
	return PageRef{
		Number:   3,
		ImageKey: "pages/3/image.png",
		Manifests: map[common.AudioSpeed]string{
			common.AudioSpeedNormal: "pages/3/blocks_normal.json",
			common.AudioSpeedSlow:   "pages/3/blocks_slow.json",
		},
		Audio: []AudioDescriptor{
			{Speed: common.AudioSpeedNormal, Ordinal: "0", Key: "pages/3/audio_normal/0.mp3"},
			{Speed: common.AudioSpeedNormal, Ordinal: "1", Key: "pages/3/audio_normal/1.mp3"},
			{Speed: common.AudioSpeedNormal, Ordinal: "2", Key: "pages/3/audio_normal/2.mp3"},
			{Speed: common.AudioSpeedSlow, Ordinal: "0", Key: "pages/3/audio_slow/0.mp3"},
			{Speed: common.AudioSpeedSlow, Ordinal: "1", Key: "pages/3/audio_slow/1.mp3"},
		},
	}
}

func fixtureStore() *fakeStore {
	return &fakeStore{
		objects: map[string][]byte{
			"pages/3/blocks_normal.json": []byte(`[
				{"text":"Block A.","ssml":"<speak><voice name=\"Joanna\"><s>Block A.</s></voice></speak>"},
				{"text":"Block B.","ssml":"<speak><voice name=\"Ruth\"><s>Block B.</s></voice></speak>"},
				{"text":"Block C.","ssml":"<speak><voice name=\"Joanna\"><s>Block C.</s></voice></speak>"}
			]`),
			"pages/3/blocks_slow.json": []byte(`{
				"0":{"text":"Slow A.","ssml":"<speak><voice name=\"Joanna\"><s>Slow A.</s></voice></speak>"},
				"1":{"text":"Slow B."}
			}`),
		},
	}
}

func loadFixture(t *testing.T) *PageSnapshot {
	t.Helper()
	snap, err := NewLoader(fixtureStore(), nil).Load(context.Background(), fixtureRef())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return snap
}
