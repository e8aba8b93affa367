package store

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/tishamal/righttoread/common"
	"github.com/tishamal/righttoread/review"
)

// ErrPageNotFound is returned when a book has no record for the page number.
var ErrPageNotFound = fmt.Errorf("page not found")

// Page holds the storage coordinates of one digitized page.
type Page struct {
	BookID       string                       `json:"book_id"`
	Number       int                          `json:"number"`
	ImageKey     string                       `json:"image_key,omitempty"`
	ManifestKeys map[common.AudioSpeed]string `json:"manifest_keys"`
}

// UpsertPage inserts or rewrites the storage coordinates for a page.
func (s *Store) UpsertPage(ctx context.Context, p Page) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`INSERT INTO pages (book_id, number, image_key, manifest_normal_key, manifest_slow_key)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (book_id, number) DO UPDATE SET
				image_key = excluded.image_key,
				manifest_normal_key = excluded.manifest_normal_key,
				manifest_slow_key = excluded.manifest_slow_key`,
			&sqlitex.ExecOptions{
				Args: []any{
					p.BookID, p.Number, p.ImageKey,
					p.ManifestKeys[common.AudioSpeedNormal],
					p.ManifestKeys[common.AudioSpeedSlow],
				},
			})
	})
}

// ListPages returns the page numbers recorded for a book, in order.
func (s *Store) ListPages(ctx context.Context, bookID string) ([]int, error) {
	var numbers []int
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`SELECT number FROM pages WHERE book_id = ? ORDER BY number`,
			&sqlitex.ExecOptions{
				Args: []any{bookID},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					numbers = append(numbers, int(stmt.GetInt64("number")))
					return nil
				},
			})
	})
	return numbers, err
}

// AddAudioFile records the object key of one synthesized audio segment.
// Re-synthesis of the same segment overwrites the previous key.
func (s *Store) AddAudioFile(ctx context.Context, bookID string, page int, speed common.AudioSpeed, ordinal review.AudioID, key string) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`INSERT INTO audio_files (book_id, page_number, speed, ordinal, object_key)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (book_id, page_number, speed, ordinal) DO UPDATE SET
				object_key = excluded.object_key`,
			&sqlitex.ExecOptions{
				Args: []any{bookID, page, speed.String(), string(ordinal), key},
			})
	})
}

// PageRef assembles the load descriptor of one page: its image and manifest
// keys plus every recorded audio segment.
func (s *Store) PageRef(ctx context.Context, bookID string, page int) (review.PageRef, error) {
	ref := review.PageRef{
		Number:    page,
		Manifests: make(map[common.AudioSpeed]string),
	}

	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		found := false
		err := sqlitex.Execute(conn,
			`SELECT image_key, manifest_normal_key, manifest_slow_key FROM pages WHERE book_id = ? AND number = ?`,
			&sqlitex.ExecOptions{
				Args: []any{bookID, page},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					found = true
					ref.ImageKey = stmt.GetText("image_key")
					if key := stmt.GetText("manifest_normal_key"); len(key) != 0 {
						ref.Manifests[common.AudioSpeedNormal] = key
					}
					if key := stmt.GetText("manifest_slow_key"); len(key) != 0 {
						ref.Manifests[common.AudioSpeedSlow] = key
					}
					return nil
				},
			})
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("book %s page %d: %w", bookID, page, ErrPageNotFound)
		}

		return sqlitex.Execute(conn,
			`SELECT speed, ordinal, object_key FROM audio_files WHERE book_id = ? AND page_number = ? ORDER BY speed, ordinal`,
			&sqlitex.ExecOptions{
				Args: []any{bookID, page},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					speed, err := common.ParseAudioSpeed(stmt.GetText("speed"))
					if err != nil {
						return err
					}
					ref.Audio = append(ref.Audio, review.AudioDescriptor{
						Speed:   speed,
						Ordinal: review.AudioID(stmt.GetText("ordinal")),
						Key:     stmt.GetText("object_key"),
					})
					return nil
				},
			})
	})
	if err != nil {
		return review.PageRef{}, err
	}
	return ref, nil
}
