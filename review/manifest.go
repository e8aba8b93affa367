package review

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/maruel/natural"
)

// manifestEntry is one block as present in a stored manifest, before identity
// derivation. Upstream manifests drifted over time, so three shapes are
// tolerated: a flat array, a {"blocks": [...]} wrapper and an object keyed by
// stringified ordinal. All three normalize into an ordered entry list.
type manifestEntry struct {
	Text   string `json:"text"`
	SSML   string `json:"ssml,omitempty"`
	Markup string `json:"markup,omitempty"`
	Voice  string `json:"voice_id,omitempty"`

	ordinal AudioID
}

func (e *manifestEntry) markup() string {
	if len(e.SSML) != 0 {
		return e.SSML
	}
	return e.Markup
}

func parseManifest(data []byte) ([]manifestEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty manifest")
	}

	switch trimmed[0] {
	case '[':
		return parseManifestList(trimmed)
	case '{':
		// wrapper shape first - an ordinal-keyed object would swallow the
		// "blocks" key as an entry otherwise
		var wrapper struct {
			Blocks json.RawMessage `json:"blocks"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("malformed manifest: %w", err)
		}
		if wrapper.Blocks != nil {
			return parseManifestList(wrapper.Blocks)
		}
		return parseManifestMap(trimmed)
	default:
		return nil, fmt.Errorf("unrecognized manifest shape (starts with %q)", trimmed[0])
	}
}

func parseManifestList(data []byte) ([]manifestEntry, error) {
	var list []manifestEntry
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("malformed manifest list: %w", err)
	}
	for i := range list {
		list[i].ordinal = AudioID(strconv.Itoa(i))
	}
	return list, nil
}

func parseManifestMap(data []byte) ([]manifestEntry, error) {
	var byOrdinal map[string]manifestEntry
	if err := json.Unmarshal(data, &byOrdinal); err != nil {
		return nil, fmt.Errorf("malformed manifest map: %w", err)
	}

	keys := make([]string, 0, len(byOrdinal))
	for k := range byOrdinal {
		keys = append(keys, k)
	}
	// ordinals are numeric strings, "10" must follow "9"
	sort.Sort(natural.StringSlice(keys))

	list := make([]manifestEntry, 0, len(keys))
	for _, k := range keys {
		e := byOrdinal[k]
		e.ordinal = AudioID(k)
		list = append(list, e)
	}
	return list, nil
}
