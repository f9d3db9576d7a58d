// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package outbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/worldstaffingawards/wsa2026/models"
)

const (
	DefaultHubSpotURL = "https://api.hubapi.com"
	DefaultLoopsURL   = "https://app.loops.so"
)

// Client delivers one contact to an external system, creating it or
// updating it when it already exists.
type Client interface {
	Upsert(ctx context.Context, c models.SyncContact) error
}

// StatusError is a non-success response from an external API.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// IsConflict reports whether err is a 409 from the remote API.
func IsConflict(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusConflict
}

type api struct {
	baseURL string
	header  http.Header
	http    *http.Client
}

func newAPI(baseURL, authHeader, authValue string) api {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set(authHeader, authValue)
	return api{
		baseURL: baseURL,
		header:  h,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (a api) do(ctx context.Context, method, path string, body any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header = a.header.Clone()

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(msg)}
}

// HubSpot writes contacts through the CRM v3 objects API.
type HubSpot struct {
	api
}

func NewHubSpot(baseURL, token string) *HubSpot {
	if baseURL == "" {
		baseURL = DefaultHubSpotURL
	}
	return &HubSpot{api: newAPI(baseURL, "Authorization", "Bearer "+token)}
}

func (h *HubSpot) Upsert(ctx context.Context, c models.SyncContact) error {
	body := map[string]any{"properties": hubSpotProperties(c)}
	err := h.do(ctx, http.MethodPost, "/crm/v3/objects/contacts", body)
	if !IsConflict(err) {
		return err
	}
	return h.do(ctx, http.MethodPatch, "/crm/v3/objects/contacts/"+url.PathEscape(c.Email)+"?idProperty=email", body)
}

func hubSpotProperties(c models.SyncContact) map[string]string {
	p := map[string]string{
		"email":    c.Email,
		"wsa_role": c.Role,
	}
	set := func(k, v string) {
		if v != "" {
			p[k] = v
		}
	}
	set("firstname", c.FirstName)
	set("lastname", c.LastName)
	set("company", c.CompanyName)
	set("wsa_category", c.Category)
	set("wsa_live_url", c.LiveURL)
	return p
}

// Loops writes contacts through the Loops contacts API.
type Loops struct {
	api
}

func NewLoops(baseURL, apiKey string) *Loops {
	if baseURL == "" {
		baseURL = DefaultLoopsURL
	}
	return &Loops{api: newAPI(baseURL, "Authorization", "Bearer "+apiKey)}
}

func (l *Loops) Upsert(ctx context.Context, c models.SyncContact) error {
	body := map[string]any{
		"email":     c.Email,
		"userGroup": c.Role,
		"source":    "wsa2026",
	}
	set := func(k, v string) {
		if v != "" {
			body[k] = v
		}
	}
	set("firstName", c.FirstName)
	set("lastName", c.LastName)
	set("companyName", c.CompanyName)
	set("category", c.Category)
	set("liveUrl", c.LiveURL)

	err := l.do(ctx, http.MethodPost, "/api/v1/contacts/create", body)
	if !IsConflict(err) {
		return err
	}
	return l.do(ctx, http.MethodPut, "/api/v1/contacts/update", body)
}

// Clients builds a client for every target that has credentials. Targets
// without credentials are left out so their rows stay pending.
func Clients(hubSpotURL, hubSpotToken, loopsURL, loopsKey string) map[string]Client {
	clients := map[string]Client{}
	if hubSpotToken != "" {
		clients[models.TargetHubSpot] = NewHubSpot(hubSpotURL, hubSpotToken)
	}
	if loopsKey != "" {
		clients[models.TargetLoops] = NewLoops(loopsURL, loopsKey)
	}
	return clients
}
