package review

import (
	"strings"
	"sync"

	"github.com/beevik/etree"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

var tokenizer = sync.OnceValues(func() (*sentences.DefaultSentenceTokenizer, error) {
	return english.NewSentenceTokenizer(nil)
})

// ExtractVoice returns the narrator voice named by the first <voice> element
// of the markup. Missing or unparseable markup yields ok == false.
func ExtractVoice(markup string) (string, bool) {
	if len(strings.TrimSpace(markup)) == 0 {
		return "", false
	}
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromString(markup); err != nil {
		return "", false
	}
	e := doc.FindElement("//voice")
	if e == nil {
		return "", false
	}
	if name := e.SelectAttrValue("name", ""); len(name) != 0 {
		return name, true
	}
	return "", false
}

// DefaultMarkup wraps plain block text into speech markup: sentences are
// split and tagged individually so the synthesis engine gets natural pause
// boundaries, and the whole block is attributed to the given voice.
func DefaultMarkup(text, voice string) string {
	doc := etree.NewDocument()
	speak := doc.CreateElement("speak")
	v := speak.CreateElement("voice")
	v.CreateAttr("name", voice)

	for _, s := range splitSentences(text) {
		e := v.CreateElement("s")
		e.SetText(s)
	}

	out, err := doc.WriteToString()
	if err != nil {
		// etree does not fail on trees we build ourselves
		return text
	}
	return out
}

func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return nil
	}

	tok, err := tokenizer()
	if err != nil {
		return []string{text}
	}

	var out []string
	for _, s := range tok.Tokenize(text) {
		t := strings.TrimSpace(s.Text)
		if len(t) != 0 {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}
