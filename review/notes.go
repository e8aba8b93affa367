package review

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/tishamal/righttoread/common"
)

// VersionNotes summarizes which kinds of changes a save applied, in a form
// suitable for the persisted revision history. Markup edits are described by
// their character-level delta against the loaded baseline.
func (s *Session) VersionNotes(speed common.AudioSpeed, cs ChangeSet) string {

	var parts []string

	if len(cs.ReorderedBlockIDs) != 0 {
		parts = append(parts, fmt.Sprintf("reordered %d blocks", len(cs.ReorderedBlockIDs)))
	}

	if len(cs.VoiceChanges) != 0 {
		for _, ord := range sortedOrdinals(cs.VoiceChanges) {
			parts = append(parts, fmt.Sprintf("voice of block %s set to %s", ord, cs.VoiceChanges[ord]))
		}
	}

	if len(cs.SSMLChanges) != 0 {
		dmp := diffmatchpatch.New()
		byOrdinal := make(map[AudioID]Block)
		for _, b := range s.snapshot.Blocks[speed] {
			byOrdinal[b.AudioID] = b
		}
		for _, ord := range sortedOrdinals(cs.SSMLChanges) {
			ins, del := 0, 0
			if b, ok := byOrdinal[ord]; ok {
				for _, d := range dmp.DiffMain(b.Markup, cs.SSMLChanges[ord], false) {
					switch d.Type {
					case diffmatchpatch.DiffInsert:
						ins += len(d.Text)
					case diffmatchpatch.DiffDelete:
						del += len(d.Text)
					}
				}
			}
			parts = append(parts, fmt.Sprintf("markup of block %s edited (+%d/-%d chars)", ord, ins, del))
		}
	}

	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, "; ")
}

func sortedOrdinals(m map[AudioID]string) []AudioID {
	keys := make([]AudioID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
