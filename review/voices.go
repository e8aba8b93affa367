package review

// DefaultVoice is assigned to blocks whose markup carries no voice marker.
const DefaultVoice = "Joanna"

var voices = []string{
	"Joanna",
	"Matthew",
	"Ivy",
	"Kendra",
	"Joey",
	"Ruth",
	"Stephen",
	"Amy",
	"Emma",
	"Brian",
}

// AvailableVoices returns the narrator voices offered to the editor when
// configuration does not name its own catalogue.
func AvailableVoices() []string {
	tmp := make([]string, len(voices))
	copy(tmp, voices)
	return tmp
}
