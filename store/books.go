package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/tishamal/righttoread/common"
)

// ErrBookNotFound is returned when a book id does not exist.
var ErrBookNotFound = errors.New("book not found")

// Book is one digitized title.
type Book struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Author        string              `json:"author,omitempty"`
	Subject       string              `json:"subject,omitempty"`
	Description   string              `json:"description,omitempty"`
	GradeLevel    int                 `json:"grade_level,omitempty"`
	Language      string              `json:"language"`
	PublishedBy   string              `json:"published_by,omitempty"`
	YearPublished int                 `json:"year_published,omitempty"`
	Status        common.BookStatus   `json:"status"`
	ReviewStatus  common.ReviewStatus `json:"review_status"`
	ReviewerNotes string              `json:"reviewer_notes,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func scanBook(stmt *sqlite.Stmt) (Book, error) {
	createdAt, err := time.Parse(time.RFC3339, stmt.GetText("created_at"))
	if err != nil {
		return Book{}, fmt.Errorf("bad created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, stmt.GetText("updated_at"))
	if err != nil {
		return Book{}, fmt.Errorf("bad updated_at: %w", err)
	}
	return Book{
		ID:            stmt.GetText("id"),
		Title:         stmt.GetText("title"),
		Author:        stmt.GetText("author"),
		Subject:       stmt.GetText("subject"),
		Description:   stmt.GetText("description"),
		GradeLevel:    int(stmt.GetInt64("grade_level")),
		Language:      stmt.GetText("language"),
		PublishedBy:   stmt.GetText("published_by"),
		YearPublished: int(stmt.GetInt64("year_published")),
		Status:        common.BookStatus(stmt.GetText("status")),
		ReviewStatus:  common.ReviewStatus(stmt.GetText("review_status")),
		ReviewerNotes: stmt.GetText("reviewer_notes"),
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

// CreateBook inserts a new book record, assigning its id and timestamps.
func (s *Store) CreateBook(ctx context.Context, b *Book) error {
	if len(b.ID) == 0 {
		b.ID = uuid.NewString()
	}
	if len(b.Language) == 0 {
		b.Language = "en"
	}
	if len(b.Status) == 0 {
		b.Status = common.BookStatusDraft
	}
	if len(b.ReviewStatus) == 0 {
		b.ReviewStatus = common.ReviewStatusPending
	}
	now := time.Now().UTC().Truncate(time.Second)
	b.CreatedAt, b.UpdatedAt = now, now

	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`INSERT INTO books (id, title, author, subject, description, grade_level, language, published_by, year_published,
				status, review_status, reviewer_notes, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{
				Args: []any{
					b.ID, b.Title, b.Author, b.Subject, b.Description, b.GradeLevel,
					b.Language, b.PublishedBy, b.YearPublished,
					b.Status.String(), b.ReviewStatus.String(), b.ReviewerNotes,
					b.CreatedAt.Format(time.RFC3339), b.UpdatedAt.Format(time.RFC3339),
				},
			})
	})
}

// GetBook returns one book by id.
func (s *Store) GetBook(ctx context.Context, id string) (Book, error) {
	var (
		book  Book
		found bool
	)
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT * FROM books WHERE id = ?`,
			&sqlitex.ExecOptions{
				Args: []any{id},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					var err error
					book, err = scanBook(stmt)
					found = true
					return err
				},
			})
	})
	if err != nil {
		return Book{}, err
	}
	if !found {
		return Book{}, fmt.Errorf("%s: %w", id, ErrBookNotFound)
	}
	return book, nil
}

// ListBooks returns all books, optionally restricted to one grade level,
// newest first.
func (s *Store) ListBooks(ctx context.Context, gradeLevel int) ([]Book, error) {
	query := `SELECT * FROM books ORDER BY created_at DESC, id`
	var args []any
	if gradeLevel > 0 {
		query = `SELECT * FROM books WHERE grade_level = ? ORDER BY created_at DESC, id`
		args = []any{gradeLevel}
	}

	var books []Book
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, query,
			&sqlitex.ExecOptions{
				Args: args,
				ResultFunc: func(stmt *sqlite.Stmt) error {
					b, err := scanBook(stmt)
					if err != nil {
						return err
					}
					books = append(books, b)
					return nil
				},
			})
	})
	return books, err
}

// CountBooks returns the number of book records.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	var count int
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT COUNT(*) AS n FROM books`,
			&sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					count = int(stmt.GetInt64("n"))
					return nil
				},
			})
	})
	return count, err
}

// UpdateBook rewrites a book's editable fields.
func (s *Store) UpdateBook(ctx context.Context, b *Book) error {
	b.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			`UPDATE books SET title = ?, author = ?, subject = ?, description = ?, grade_level = ?, language = ?,
				published_by = ?, year_published = ?, status = ?, updated_at = ? WHERE id = ?`,
			&sqlitex.ExecOptions{
				Args: []any{
					b.Title, b.Author, b.Subject, b.Description, b.GradeLevel, b.Language,
					b.PublishedBy, b.YearPublished, b.Status.String(),
					b.UpdatedAt.Format(time.RFC3339), b.ID,
				},
			})
		if err != nil {
			return err
		}
		if conn.Changes() == 0 {
			return fmt.Errorf("%s: %w", b.ID, ErrBookNotFound)
		}
		return nil
	})
}

// SetReviewStatus transitions a book through the review workflow.
func (s *Store) SetReviewStatus(ctx context.Context, id string, status common.ReviewStatus, notes string) error {
	if !status.IsValid() {
		return fmt.Errorf("%s is %w", status, common.ErrInvalidReviewStatus)
	}
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			`UPDATE books SET review_status = ?, reviewer_notes = ?, updated_at = ? WHERE id = ?`,
			&sqlitex.ExecOptions{
				Args: []any{status.String(), notes, time.Now().UTC().Format(time.RFC3339), id},
			})
		if err != nil {
			return err
		}
		if conn.Changes() == 0 {
			return fmt.Errorf("%s: %w", id, ErrBookNotFound)
		}
		return nil
	})
}

// DeleteBook removes a book with its pages and audio records.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `DELETE FROM books WHERE id = ?`,
			&sqlitex.ExecOptions{Args: []any{id}})
		if err != nil {
			return err
		}
		if conn.Changes() == 0 {
			return fmt.Errorf("%s: %w", id, ErrBookNotFound)
		}
		return nil
	})
}
