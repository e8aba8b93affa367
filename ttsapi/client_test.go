package ttsapi

import (
	"archive/zip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tishamal/righttoread/common"
	"github.com/tishamal/righttoread/config"
	"github.com/tishamal/righttoread/review"
)

func newTestClient(url string) *Client {
	return NewClient(&config.TTSServiceConfig{
		BaseURL:        url,
		APIKey:         "test-key",
		TimeoutSeconds: 5,
	}, nil, nil)
}

func TestClient_UpdateBlocks(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"updated_blocks": []map[string]any{
				{"block_id": "0", "text": "rewritten", "voice_id": "Joanna"},
			},
		})
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).UpdateBlocks(context.Background(), review.UpdateRequest{
		Book: "my-reader",
		Page: 4,
		OriginalBlocks: []review.BlockPayload{
			{BlockID: "0", Text: "original", Voice: "Joanna"},
		},
		UserChanges: review.ChangeSet{
			ReorderedBlockIDs: []review.AudioID{"1", "0"},
		},
	})
	if err != nil {
		t.Fatalf("UpdateBlocks() error = %v", err)
	}

	if gotPath != "POST /books/my-reader/pages/4/update-blocks" {
		t.Errorf("request = %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if _, ok := gotBody["original_blocks"]; !ok {
		t.Error("request body missing original_blocks")
	}
	var changes review.ChangeSet
	if err := json.Unmarshal(gotBody["user_changes"], &changes); err != nil {
		t.Fatalf("decode user_changes: %v", err)
	}
	if len(changes.ReorderedBlockIDs) != 2 {
		t.Errorf("user_changes.reordered_block_ids = %v", changes.ReorderedBlockIDs)
	}

	if len(res.UpdatedBlocks) != 1 || res.UpdatedBlocks[0].Text != "rewritten" {
		t.Errorf("UpdatedBlocks = %+v", res.UpdatedBlocks)
	}
}

func TestClient_SaveChanges(t *testing.T) {
	var gotPath string
	var gotBody struct {
		UpdatedBlocks []review.BlockPayload `json:"updated_blocks"`
		Speed         common.AudioSpeed     `json:"audio_speed"`
		VersionNotes  string                `json:"version_notes"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).SaveChanges(context.Background(), review.SaveRequest{
		Book:          "my-reader",
		Page:          4,
		UpdatedBlocks: []review.BlockPayload{{BlockID: "0", Text: "done"}},
		Speed:         common.AudioSpeedSlow,
		VersionNotes:  "reordered 2 blocks",
	})
	if err != nil {
		t.Fatalf("SaveChanges() error = %v", err)
	}

	if gotPath != "PUT /books/my-reader/pages/4/save-changes" {
		t.Errorf("request = %q", gotPath)
	}
	if gotBody.Speed != common.AudioSpeedSlow {
		t.Errorf("audio_speed = %s, want slow", gotBody.Speed)
	}
	if gotBody.VersionNotes != "reordered 2 blocks" {
		t.Errorf("version_notes = %q", gotBody.VersionNotes)
	}
}

func TestClient_SetReviewStatus(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).SetReviewStatus(context.Background(), "my-reader", common.ReviewStatusApproved, "looks good")
	if err != nil {
		t.Fatalf("SetReviewStatus() error = %v", err)
	}

	if gotPath != "PUT /books/my-reader/review-status" {
		t.Errorf("request = %q", gotPath)
	}
	if gotBody["status"] != "approved" {
		t.Errorf("status = %q, want approved", gotBody["status"])
	}
	if gotBody["reviewer_notes"] != "looks good" {
		t.Errorf("reviewer_notes = %q", gotBody["reviewer_notes"])
	}
}

func TestClient_ErrorEnvelopes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantPart string
	}{
		{"error envelope", http.StatusBadRequest, `{"error":"bad change set"}`, "bad change set"},
		{"detail envelope", http.StatusUnprocessableEntity, `{"detail":"invalid audio_speed"}`, "invalid audio_speed"},
		{"plain body", http.StatusInternalServerError, `boom`, "boom"},
		{"empty body", http.StatusBadGateway, ``, "no error detail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := newTestClient(srv.URL).SaveChanges(context.Background(), review.SaveRequest{Book: "b", Page: 1})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantPart) {
				t.Errorf("error = %v, want containing %q", err, tt.wantPart)
			}
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")

	if err := c.SaveChanges(context.Background(), review.SaveRequest{Book: "b", Page: 1}); err == nil {
		t.Fatal("expected error for unreachable service")
	}
}

func TestClient_FailedCallStoredInReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"synthesis backend down"}`))
	}))
	defer srv.Close()

	conf := config.ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}
	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	c := NewClient(&config.TTSServiceConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 5,
	}, rpt, nil)

	// two failing calls must not collide on report entry names
	for i := 0; i < 2; i++ {
		if err := c.SaveChanges(context.Background(), review.SaveRequest{Book: "b", Page: 1}); err == nil {
			t.Fatal("expected error from failing service")
		}
	}

	name := rpt.Name()
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("failed to open report archive: %v", err)
	}
	defer zr.Close()

	var requests, responses int
	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "tts/") && strings.HasSuffix(f.Name, "-request.json"):
			requests++
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("failed to open archive entry: %v", err)
			}
			var body map[string]json.RawMessage
			err = json.NewDecoder(rc).Decode(&body)
			rc.Close()
			if err != nil {
				t.Errorf("stored request is not JSON: %v", err)
			}
			if _, ok := body["updated_blocks"]; !ok {
				t.Error("stored request missing updated_blocks")
			}
		case strings.HasPrefix(f.Name, "tts/") && strings.HasSuffix(f.Name, "-response.json"):
			responses++
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("failed to open archive entry: %v", err)
			}
			data, _ := io.ReadAll(rc)
			rc.Close()
			if !strings.Contains(string(data), "synthesis backend down") {
				t.Errorf("stored response = %s, want service error body", data)
			}
		}
	}
	if requests != 2 || responses != 2 {
		t.Errorf("stored entries: %d requests, %d responses, want 2/2", requests, responses)
	}
}
