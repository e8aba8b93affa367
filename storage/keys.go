package storage

import (
	"fmt"
	"sort"

	"github.com/gosimple/slug"
	"github.com/maruel/natural"

	"github.com/tishamal/righttoread/common"
	"github.com/tishamal/righttoread/review"
)

// Object keys follow a fixed layout under the book's slug:
//
//	books/{slug}/pages/{page}/image.png
//	books/{slug}/pages/{page}/blocks_{speed}.json
//	books/{slug}/pages/{page}/audio_{speed}/{ordinal}.mp3

// BookPrefix returns the key prefix of all of a book's objects.
func BookPrefix(title string) string {
	return "books/" + slug.Make(title)
}

// PagePrefix returns the key prefix of one page's objects.
func PagePrefix(title string, page int) string {
	return fmt.Sprintf("%s/pages/%d", BookPrefix(title), page)
}

// ImageKey returns the key of a page's scanned image.
func ImageKey(title string, page int) string {
	return PagePrefix(title, page) + "/image.png"
}

// ManifestKey returns the key of a page's block manifest for one speed track.
func ManifestKey(title string, page int, speed common.AudioSpeed) string {
	return fmt.Sprintf("%s/blocks_%s.json", PagePrefix(title, page), speed)
}

// AudioKey returns the key of one block's narration file.
func AudioKey(title string, page int, speed common.AudioSpeed, ordinal review.AudioID) string {
	return fmt.Sprintf("%s/audio_%s/%s.mp3", PagePrefix(title, page), speed, ordinal)
}

// SortKeys orders keys naturally so that page 10 follows page 9 instead of
// page 1.
func SortKeys(keys []string) {
	sort.Sort(natural.StringSlice(keys))
}
