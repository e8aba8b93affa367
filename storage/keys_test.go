package storage

import (
	"reflect"
	"testing"

	"github.com/tishamal/righttoread/common"
)

func TestBookPrefix(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"My First Reader", "books/my-first-reader"},
		{"Stories and Poems, Vol. 2", "books/stories-and-poems-vol-2"},
		{"already-slugged", "books/already-slugged"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := BookPrefix(tt.title); got != tt.want {
				t.Errorf("BookPrefix(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestKeyLayout(t *testing.T) {
	title := "My First Reader"

	if got, want := ImageKey(title, 4), "books/my-first-reader/pages/4/image.png"; got != want {
		t.Errorf("ImageKey() = %q, want %q", got, want)
	}
	if got, want := ManifestKey(title, 4, common.AudioSpeedNormal), "books/my-first-reader/pages/4/blocks_normal.json"; got != want {
		t.Errorf("ManifestKey() = %q, want %q", got, want)
	}
	if got, want := ManifestKey(title, 4, common.AudioSpeedSlow), "books/my-first-reader/pages/4/blocks_slow.json"; got != want {
		t.Errorf("ManifestKey() = %q, want %q", got, want)
	}
	if got, want := AudioKey(title, 4, common.AudioSpeedSlow, "7"), "books/my-first-reader/pages/4/audio_slow/7.mp3"; got != want {
		t.Errorf("AudioKey() = %q, want %q", got, want)
	}
}

func TestSortKeys_NaturalPageOrder(t *testing.T) {
	keys := []string{
		"books/b/pages/10/image.png",
		"books/b/pages/2/image.png",
		"books/b/pages/1/image.png",
		"books/b/pages/9/image.png",
	}

	SortKeys(keys)

	want := []string{
		"books/b/pages/1/image.png",
		"books/b/pages/2/image.png",
		"books/b/pages/9/image.png",
		"books/b/pages/10/image.png",
	}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("SortKeys() = %v, want %v", keys, want)
	}
}

func TestContentType(t *testing.T) {
	// PNG magic number
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	// MP3 with ID3 tag
	mp3 := []byte{0x49, 0x44, 0x33, 0x03, 0, 0, 0, 0, 0, 0, 0, 0}

	tests := []struct {
		name string
		key  string
		data []byte
		want string
	}{
		{"png by magic", "pages/1/image.png", png, "image/png"},
		{"mp3 by magic", "pages/1/audio_normal/0.mp3", mp3, "audio/mpeg"},
		{"json by extension", "pages/1/blocks_normal.json", []byte(`{"blocks":[]}`), "application/json"},
		{"text by extension", "notes.txt", []byte("hello"), "text/plain"},
		{"unknown", "blob.bin", []byte{0x00, 0x01}, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContentType(tt.key, tt.data); got != tt.want {
				t.Errorf("ContentType(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
