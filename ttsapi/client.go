// Package ttsapi is the client of the narration service: the external system
// that reconciles block text after edits and re-synthesizes, uploads and
// durably records narration audio. It implements review.Reconciler.
package ttsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tishamal/righttoread/common"
	"github.com/tishamal/righttoread/config"
	"github.com/tishamal/righttoread/review"
)

type Client struct {
	base   string
	apiKey string
	http   *http.Client
	rpt    *config.Report
	log    *zap.Logger
}

// NewClient builds a narration service client. When a debug report is passed
// the client stores request and response payloads of failed calls in it.
func NewClient(conf *config.TTSServiceConfig, rpt *config.Report, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:   strings.TrimRight(conf.BaseURL, "/"),
		apiKey: string(conf.APIKey),
		http:   &http.Client{Timeout: conf.Timeout()},
		rpt:    rpt,
		log:    log,
	}
}

// UpdateBlocks submits the loaded baseline and the user's change set for
// semantic reconciliation and returns the full rewritten block set.
func (c *Client) UpdateBlocks(ctx context.Context, req review.UpdateRequest) (review.UpdateResult, error) {
	var res review.UpdateResult

	url := fmt.Sprintf("%s/books/%s/pages/%d/update-blocks", c.base, req.Book, req.Page)
	body := struct {
		OriginalBlocks []review.BlockPayload `json:"original_blocks"`
		UserChanges    review.ChangeSet      `json:"user_changes"`
	}{
		OriginalBlocks: req.OriginalBlocks,
		UserChanges:    req.UserChanges,
	}

	if err := c.call(ctx, http.MethodPost, url, body, &res); err != nil {
		return review.UpdateResult{}, err
	}
	return res, nil
}

// SaveChanges submits reconciled blocks for audio synthesis and durable
// persistence of content and order.
func (c *Client) SaveChanges(ctx context.Context, req review.SaveRequest) error {
	url := fmt.Sprintf("%s/books/%s/pages/%d/save-changes", c.base, req.Book, req.Page)
	body := struct {
		UpdatedBlocks []review.BlockPayload `json:"updated_blocks"`
		Speed         common.AudioSpeed     `json:"audio_speed"`
		VersionNotes  string                `json:"version_notes"`
	}{
		UpdatedBlocks: req.UpdatedBlocks,
		Speed:         req.Speed,
		VersionNotes:  req.VersionNotes,
	}
	return c.call(ctx, http.MethodPut, url, body, nil)
}

// SetReviewStatus transitions a book through the review workflow.
func (c *Client) SetReviewStatus(ctx context.Context, book string, status common.ReviewStatus, notes string) error {
	url := fmt.Sprintf("%s/books/%s/review-status", c.base, book)
	body := struct {
		Status        common.ReviewStatus `json:"status"`
		ReviewerNotes string              `json:"reviewer_notes,omitempty"`
	}{
		Status:        status,
		ReviewerNotes: notes,
	}
	return c.call(ctx, http.MethodPut, url, body, nil)
}

func (c *Client) call(ctx context.Context, method, url string, in, out any) error {

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("unable to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("unable to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if len(c.apiKey) != 0 {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.log.Debug("Calling narration service", zap.String("method", method), zap.String("url", url))

	resp, err := c.http.Do(req)
	if err != nil {
		c.report(method, url, payload, nil)
		return fmt.Errorf("narration service unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("unable to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.report(method, url, payload, data)
		return fmt.Errorf("narration service returned %d: %s", resp.StatusCode, errorMessage(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unable to decode response: %w", err)
		}
	}
	return nil
}

// report stores the payloads of a failed call in the debug report. Entry
// names carry a timestamp, a failing call can be retried any number of times.
func (c *Client) report(method, url string, request, response []byte) {
	if c.rpt == nil {
		return
	}
	prefix := fmt.Sprintf("tts/%d-%s", time.Now().UnixNano(), method)
	c.rpt.StoreData(prefix+"-request.json", request)
	if len(response) != 0 {
		c.rpt.StoreData(prefix+"-response.json", response)
	}
	c.log.Debug("Stored failed call in debug report", zap.String("url", url), zap.String("entry", prefix))
}

// errorMessage extracts the service's error text from either of the two
// envelope styles it has used over time.
func errorMessage(data []byte) string {
	var envelope struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if len(envelope.Error) != 0 {
			return envelope.Error
		}
		if len(envelope.Detail) != 0 {
			return envelope.Detail
		}
	}
	if len(data) == 0 {
		return "no error detail"
	}
	return string(data)
}
