// Package sheet talks to the Google Apps Script web app that fronts the
// school's content spreadsheet. Reads are GETs with an action query
// parameter per collection; writes are POSTs carrying an action-tagged
// JSON body. The backend contract is loose, so responses are decoded
// defensively and known script failure modes are rewritten into messages
// an operator can act on.
package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sdn3bangkuang/sekolahku/internal/apperr"
	"github.com/sdn3bangkuang/sekolahku/internal/models"
	"github.com/sdn3bangkuang/sekolahku/internal/normalize"
)

// Write actions accepted by the Apps Script endpoint.
const (
	ActionNews        = "news"
	ActionGallery     = "gallery"
	ActionTeacher     = "teacher"
	ActionEditTeacher = "edit_teacher"
	ActionDelete      = "delete"
)

// Collection names used for reads and delete targets.
const (
	CollectionNews     = "news"
	CollectionGallery  = "gallery"
	CollectionTeachers = "teachers"
)

// The script only understands text/plain bodies; a JSON content type makes
// Apps Script respond with a CORS preflight it cannot serve.
const postContentType = "text/plain;charset=utf-8"

// Client issues requests against one configured Apps Script base URL.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client for the given base endpoint URL.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpc: httpc}
}

// FetchAll retrieves the three content collections concurrently and
// returns them normalized and typed. The three requests are independent;
// any transport failure or backend misconfiguration fails the whole fetch.
func (c *Client) FetchAll(ctx context.Context) (*models.Collections, error) {
	var newsRows, galleryRows, teacherRows []normalize.Row

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		newsRows, err = c.fetchRows(gCtx, CollectionNews)
		return err
	})
	g.Go(func() (err error) {
		galleryRows, err = c.fetchRows(gCtx, CollectionGallery)
		return err
	})
	g.Go(func() (err error) {
		teacherRows, err = c.fetchRows(gCtx, CollectionTeachers)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.Collections{
		News:     normalize.News(newsRows),
		Gallery:  normalize.Gallery(galleryRows),
		Teachers: normalize.Teachers(teacherRows),
	}, nil
}

// fetchRows GETs one collection. A body that fails to parse as a JSON
// array degrades to an empty collection, except for the script's
// placeholder status object, which means the deployed script lacks the
// content handlers and must surface as a deployment error.
func (c *Client) fetchRows(ctx context.Context, collection string) ([]normalize.Row, error) {
	url := fmt.Sprintf("%s?action=%s&_t=%d", c.baseURL, collection, time.Now().UnixMilli())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("sheet: build %s request: %w", collection, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet: fetch %s: %w", collection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sheet: read %s response: %w", collection, err)
	}

	var rows []normalize.Row
	if err := json.Unmarshal(body, &rows); err == nil {
		return rows, nil
	}

	var probe struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.Status != "" {
		return nil, fmt.Errorf(
			"sheet: %s feed returned status %q instead of data: %w; the deployed Apps Script is missing the doGet content handlers, paste the current Kode.gs and deploy a new version",
			collection, probe.Status, apperr.ErrBackendDeployment)
	}

	// Unparseable body: treat as an empty collection.
	return []normalize.Row{}, nil
}

// Append posts one create/update mutation. fields is the raw form payload;
// the action discriminator is added on top and must be one of the Action
// constants.
func (c *Client) Append(ctx context.Context, action string, fields map[string]any) error {
	payload := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["action"] = action
	return c.post(ctx, payload)
}

// Delete posts a delete mutation for one item of the named collection.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	return c.post(ctx, map[string]any{
		"action": ActionDelete,
		"type":   collection,
		"id":     id,
	})
}

func (c *Client) post(ctx context.Context, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sheet: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sheet: build post: %w", err)
	}
	req.Header.Set("Content-Type", postContentType)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sheet: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sheet: server rejected write (HTTP %d)", resp.StatusCode)
	}

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("sheet: decode write response: %w", err)
	}
	if result.Status == "error" {
		return rewriteScriptError(result.Message)
	}
	return nil
}

// rewriteScriptError turns known Apps Script failure substrings into
// messages that tell the operator what to fix instead of leaking a raw
// stack trace line.
func rewriteScriptError(msg string) error {
	switch {
	case strings.Contains(msg, "openById") || strings.Contains(msg, "SpreadsheetApp"):
		return fmt.Errorf("sheet: script cannot open the spreadsheet; check that the spreadsheet ID in Kode.gs matches the content sheet (backend said: %s)", msg)
	case strings.Contains(msg, "appendRow"):
		return fmt.Errorf("sheet: spreadsheet tab not found; update Kode.gs and deploy a new version (backend said: %s)", msg)
	case msg == "":
		return fmt.Errorf("sheet: script reported an unspecified error")
	default:
		return fmt.Errorf("sheet: script error: %s", msg)
	}
}
