package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tishamal/righttoread/common"
	"github.com/tishamal/righttoread/storage"
	"github.com/tishamal/righttoread/store"
)

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: unable to decode body: %v", errBadRequest, err)
	}
	return nil
}

func pageNumber(r *http.Request) (int, error) {
	n, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: bad page number %q", errBadRequest, r.PathValue("number"))
	}
	return n, nil
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	grade := 0
	if v := r.URL.Query().Get("grade"); len(v) != 0 {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondErr(w, fmt.Errorf("%w: bad grade %q", errBadRequest, v))
			return
		}
		grade = n
	}

	books, err := s.store.ListBooks(r.Context(), grade)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if books == nil {
		books = []store.Book{}
	}
	s.respond(w, http.StatusOK, books)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var b store.Book
	if err := decodeBody(r, &b); err != nil {
		s.respondErr(w, err)
		return
	}
	if len(b.Title) == 0 {
		s.respondErr(w, fmt.Errorf("%w: title is required", errBadRequest))
		return
	}

	if err := s.store.CreateBook(r.Context(), &b); err != nil {
		s.respondErr(w, err)
		return
	}
	s.log.Info("Book created", zap.String("id", b.ID), zap.String("title", b.Title))
	s.respond(w, http.StatusCreated, b)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.GetBook(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respond(w, http.StatusOK, b)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var b store.Book
	if err := decodeBody(r, &b); err != nil {
		s.respondErr(w, err)
		return
	}
	b.ID = r.PathValue("id")

	if err := s.store.UpdateBook(r.Context(), &b); err != nil {
		s.respondErr(w, err)
		return
	}
	s.respond(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	b, err := s.store.GetBook(r.Context(), id)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if err := s.store.DeleteBook(r.Context(), id); err != nil {
		s.respondErr(w, err)
		return
	}
	s.purgeObjects(r.Context(), b.Title)

	s.log.Info("Book deleted", zap.String("id", id))
	s.respond(w, http.StatusOK, nil)
}

// purgeObjects removes everything stored under the book's key prefix. The
// record delete has already committed, so storage failures are only logged -
// orphaned objects are harmless and can be swept later.
func (s *Server) purgeObjects(ctx context.Context, title string) {
	if s.objects == nil {
		return
	}

	prefix := storage.BookPrefix(title)
	keys, err := s.objects.List(ctx, prefix)
	if err != nil {
		s.log.Warn("Unable to list book objects", zap.String("prefix", prefix), zap.Error(err))
		return
	}
	for _, key := range keys {
		if err := s.objects.Delete(ctx, key); err != nil {
			s.log.Warn("Unable to delete book object", zap.String("key", key), zap.Error(err))
		}
	}
	s.log.Info("Book objects purged", zap.String("prefix", prefix), zap.Int("count", len(keys)))
}

// handleRegisterPage records a page's storage coordinates. Manifests supplied
// inline are placed at their conventional keys; an image key is recorded as
// given (images are uploaded out of band).
func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Number         int             `json:"number"`
		ImageKey       string          `json:"image_key"`
		ManifestNormal json.RawMessage `json:"manifest_normal"`
		ManifestSlow   json.RawMessage `json:"manifest_slow"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.respondErr(w, err)
		return
	}
	if body.Number < 1 {
		s.respondErr(w, fmt.Errorf("%w: bad page number %d", errBadRequest, body.Number))
		return
	}

	b, err := s.store.GetBook(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondErr(w, err)
		return
	}

	page := store.Page{
		BookID:       b.ID,
		Number:       body.Number,
		ImageKey:     body.ImageKey,
		ManifestKeys: make(map[common.AudioSpeed]string),
	}

	manifests := map[common.AudioSpeed]json.RawMessage{
		common.AudioSpeedNormal: body.ManifestNormal,
		common.AudioSpeedSlow:   body.ManifestSlow,
	}
	for speed, data := range manifests {
		if len(data) == 0 {
			continue
		}
		key := storage.ManifestKey(b.Title, body.Number, speed)
		if s.objects != nil {
			if err := s.objects.Upload(r.Context(), key, data); err != nil {
				s.respondErr(w, fmt.Errorf("unable to store %s manifest: %w", speed, err))
				return
			}
		}
		page.ManifestKeys[speed] = key
	}

	if err := s.store.UpsertPage(r.Context(), page); err != nil {
		s.respondErr(w, err)
		return
	}

	s.log.Info("Page registered", zap.String("book", b.ID), zap.Int("page", body.Number))
	s.respond(w, http.StatusCreated, page)
}

// handleReviewStatus records the review decision locally and forwards it to
// the narration service. The local record is authoritative; a forwarding
// failure is reported but not rolled back.
func (s *Server) handleReviewStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status        common.ReviewStatus `json:"status"`
		ReviewerNotes string              `json:"reviewer_notes"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.respondErr(w, err)
		return
	}
	if !body.Status.IsValid() {
		s.respondErr(w, fmt.Errorf("%w: %s is %v", errBadRequest, body.Status, common.ErrInvalidReviewStatus))
		return
	}

	id := r.PathValue("id")
	if err := s.store.SetReviewStatus(r.Context(), id, body.Status, body.ReviewerNotes); err != nil {
		s.respondErr(w, err)
		return
	}

	if s.tts != nil {
		if err := s.tts.SetReviewStatus(r.Context(), id, body.Status, body.ReviewerNotes); err != nil {
			s.log.Error("Unable to forward review status", zap.String("book", id), zap.Error(err))
			s.respondErr(w, fmt.Errorf("review status recorded but not forwarded: %w", err))
			return
		}
	}

	s.log.Info("Review status set", zap.String("book", id), zap.Stringer("status", body.Status))
	s.respond(w, http.StatusOK, nil)
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.GetBook(r.Context(), id); err != nil {
		s.respondErr(w, err)
		return
	}

	pages, err := s.store.ListPages(r.Context(), id)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if pages == nil {
		pages = []int{}
	}
	s.respond(w, http.StatusOK, pages)
}

func (s *Server) handlePageRef(w http.ResponseWriter, r *http.Request) {
	number, err := pageNumber(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}

	ref, err := s.store.PageRef(r.Context(), r.PathValue("id"), number)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respond(w, http.StatusOK, ref)
}

func (s *Server) handleBookAnalytics(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.EventCounts(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respond(w, http.StatusOK, counts)
}

func (s *Server) handleRecordEvent(w http.ResponseWriter, r *http.Request) {
	var ev store.AnalyticsEvent
	if err := decodeBody(r, &ev); err != nil {
		s.respondErr(w, err)
		return
	}
	if len(ev.BookID) == 0 || len(ev.Event) == 0 {
		s.respondErr(w, fmt.Errorf("%w: book_id and event are required", errBadRequest))
		return
	}

	if err := s.store.RecordEvent(r.Context(), ev); err != nil {
		s.respondErr(w, err)
		return
	}
	s.respond(w, http.StatusCreated, nil)
}

// handleSummary gives the dashboard its headline numbers: catalogue size and
// all-time per-book usage.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.CountBooks(r.Context())
	if err != nil {
		s.respondErr(w, err)
		return
	}

	rows, err := s.store.Usage(r.Context(), time.Time{}, time.Time{})
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if rows == nil {
		rows = []store.UsageRow{}
	}

	s.respond(w, http.StatusOK, struct {
		Books int              `json:"books"`
		Usage []store.UsageRow `json:"usage"`
	}{Books: books, Usage: rows})
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	var since, until time.Time
	var err error

	if v := r.URL.Query().Get("since"); len(v) != 0 {
		if since, err = time.Parse(time.RFC3339, v); err != nil {
			s.respondErr(w, fmt.Errorf("%w: bad since %q", errBadRequest, v))
			return
		}
	}
	if v := r.URL.Query().Get("until"); len(v) != 0 {
		if until, err = time.Parse(time.RFC3339, v); err != nil {
			s.respondErr(w, fmt.Errorf("%w: bad until %q", errBadRequest, v))
			return
		}
	}

	rows, err := s.store.Usage(r.Context(), since, until)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if rows == nil {
		rows = []store.UsageRow{}
	}
	s.respond(w, http.StatusOK, rows)
}
