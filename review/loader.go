package review

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tishamal/righttoread/common"
)

// ObjectStore retrieves stored objects and mints temporary access URLs for
// them. Implementations must return an error matching ErrObjectNotFound when
// a key does not exist.
type ObjectStore interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
	ResolveURLs(ctx context.Context, keys []string) (map[string]string, error)
}

// AudioDescriptor names one persisted narration file of a page.
type AudioDescriptor struct {
	Speed   common.AudioSpeed
	Ordinal AudioID
	Key     string
}

// PageRef carries the storage coordinates of one page: where its image, its
// per-speed block manifests and its narration files live.
type PageRef struct {
	Number    int
	ImageKey  string
	Manifests map[common.AudioSpeed]string
	Audio     []AudioDescriptor
}

// Loader builds immutable page snapshots from stored manifests.
type Loader struct {
	store        ObjectStore
	log          *zap.Logger
	defaultVoice string
}

type LoaderOption func(*Loader)

// WithDefaultVoice overrides the voice assigned to blocks whose markup names
// none.
func WithDefaultVoice(voice string) LoaderOption {
	return func(l *Loader) {
		if len(voice) != 0 {
			l.defaultVoice = voice
		}
	}
}

func NewLoader(store ObjectStore, log *zap.Logger, options ...LoaderOption) *Loader {
	l := &Loader{
		store:        store,
		log:          log,
		defaultVoice: DefaultVoice,
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	for _, o := range options {
		o(l)
	}
	return l
}

// Load fetches both speed tracks of a page and joins the persisted audio
// assets against resolved access URLs. The normal track is the minimum
// requirement for a page to be reviewable - any failure there is fatal. A
// missing or broken slow track degrades to an empty block list.
func (l *Loader) Load(ctx context.Context, ref PageRef) (*PageSnapshot, error) {

	snap := newPageSnapshot(ref.Number)

	for _, speed := range []common.AudioSpeed{common.AudioSpeedNormal, common.AudioSpeedSlow} {
		blocks, err := l.loadTrack(ctx, ref, speed)
		if err != nil {
			if speed == common.AudioSpeedSlow {
				l.log.Warn("Slow speed track unavailable, continuing without it",
					zap.Int("page", ref.Number), zap.Error(err))
				blocks = nil
			} else {
				return nil, &LoadError{Page: ref.Number, Speed: speed, Err: err}
			}
		}
		snap.addBlocks(speed, blocks)
	}

	if err := l.resolveAssets(ctx, ref, snap); err != nil {
		return nil, &LoadError{Page: ref.Number, Speed: common.AudioSpeedNormal, Err: err}
	}
	return snap, nil
}

func (l *Loader) loadTrack(ctx context.Context, ref PageRef, speed common.AudioSpeed) ([]Block, error) {

	key := ref.Manifests[speed]
	if len(key) == 0 {
		return nil, fmt.Errorf("no manifest recorded for %s track", speed)
	}

	data, err := l.store.Fetch(ctx, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, fmt.Errorf("manifest %s is missing: %w", key, err)
		}
		return nil, fmt.Errorf("unable to fetch manifest %s: %w", key, err)
	}

	entries, err := parseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", key, err)
	}

	blocks := make([]Block, 0, len(entries))
	for i, e := range entries {
		b := Block{
			ID:               MakeBlockID(ref.Number, e.ordinal, speed),
			AudioID:          e.ordinal,
			OriginalPosition: i,
			Text:             e.Text,
			Markup:           e.markup(),
			Voice:            l.defaultVoice,
		}
		if v, ok := ExtractVoice(b.Markup); ok {
			b.Voice = v
		}
		if len(b.Markup) == 0 {
			b.Markup = DefaultMarkup(b.Text, b.Voice)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func (l *Loader) resolveAssets(ctx context.Context, ref PageRef, snap *PageSnapshot) error {

	keys := make([]string, 0, len(ref.Audio)+1)
	if len(ref.ImageKey) != 0 {
		keys = append(keys, ref.ImageKey)
	}
	for _, d := range ref.Audio {
		keys = append(keys, d.Key)
	}
	if len(keys) == 0 {
		return nil
	}

	urls, err := l.store.ResolveURLs(ctx, keys)
	if err != nil {
		return fmt.Errorf("unable to resolve asset URLs: %w", err)
	}

	if len(ref.ImageKey) != 0 {
		snap.Image = AssetRef{Key: ref.ImageKey, URL: urls[ref.ImageKey]}
	}
	for _, d := range ref.Audio {
		url, ok := urls[d.Key]
		if !ok {
			l.log.Debug("No URL resolved for audio asset", zap.String("key", d.Key))
			continue
		}
		snap.assets[assetKey{Ordinal: d.Ordinal, Speed: d.Speed}] = AssetRef{Key: d.Key, URL: url}
	}
	return nil
}
