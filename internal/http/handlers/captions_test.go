package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/middleware"
)

func TestGenerateCaption(t *testing.T) {
	app, f := newTestApp(t)
	businessID := seedBusiness(t, f, 10)

	rec := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/api/generate-caption", map[string]any{
		"businessId": businessID,
		"topic":      "single origin drop",
		"platform":   "instagram",
		"tone":       "playful",
	})
	req = req.WithContext(context.WithValue(req.Context(), middleware.LocaleKey, "pt"))

	app.GenerateCaption(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
	}
	var resp generateCaptionResponse
	decodeJSON(t, rec, &resp)
	if resp.Caption == "" {
		t.Fatal("caption is empty")
	}
	if resp.Locale != "pt" {
		t.Fatalf("locale = %q, want pt", resp.Locale)
	}
	if f.captions.last.Topic != "single origin drop" || f.captions.last.Platform != "instagram" {
		t.Fatalf("provider request = %+v", f.captions.last)
	}
	if f.captions.last.Business == nil || f.captions.last.Business.ID != businessID {
		t.Fatal("provider did not receive the business profile")
	}
	if len(f.usage.events) != 1 {
		t.Fatalf("usage events = %d, want 1", len(f.usage.events))
	}
	ev := f.usage.events[0]
	if ev.EventType != domain.UsageEventCaptionGeneration || !ev.Success {
		t.Fatalf("usage event = %+v", ev)
	}
}

func TestGenerateCaptionTopicFromAsset(t *testing.T) {
	app, f := newTestApp(t)
	businessID := seedBusiness(t, f, 10)
	asset := &domain.Asset{BusinessID: businessID, Kind: domain.AssetKindImage, Prompt: "latte art on marble", Content: "http://localhost:8080/static/a.png"}
	if err := f.assets.Create(context.Background(), asset); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	rec := httptest.NewRecorder()
	app.GenerateCaption(rec, jsonRequest(t, http.MethodPost, "/api/generate-caption", map[string]any{
		"businessId": businessID,
		"assetId":    asset.ID,
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
	}
	if f.captions.last.Topic != "latte art on marble" {
		t.Fatalf("topic = %q, want the asset prompt", f.captions.last.Topic)
	}
}

func TestGenerateCaptionErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       func(f *fixtures) map[string]any
		setup      func(f *fixtures)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing business id",
			body:       func(*fixtures) map[string]any { return map[string]any{"topic": "x"} },
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name: "unknown business",
			body: func(*fixtures) map[string]any {
				return map[string]any{"businessId": uuid.NewString(), "topic": "x"}
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name: "provider failure",
			body: func(f *fixtures) map[string]any {
				return map[string]any{"businessId": seedBusiness(t, f, 10), "topic": "x"}
			},
			setup:      func(f *fixtures) { f.captions.err = errors.New("model unavailable") },
			wantStatus: http.StatusBadGateway,
			wantCode:   "provider_failure",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, f := newTestApp(t)
			if tc.setup != nil {
				tc.setup(f)
			}
			rec := httptest.NewRecorder()
			app.GenerateCaption(rec, jsonRequest(t, http.MethodPost, "/api/generate-caption", tc.body(f)))
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if got := errorCode(t, rec); got != tc.wantCode {
				t.Fatalf("error code = %q, want %q", got, tc.wantCode)
			}
		})
	}
}

func TestGenerateCaptionRecordsFailure(t *testing.T) {
	app, f := newTestApp(t)
	businessID := seedBusiness(t, f, 10)
	f.captions.err = errors.New("model unavailable")

	rec := httptest.NewRecorder()
	app.GenerateCaption(rec, jsonRequest(t, http.MethodPost, "/api/generate-caption", map[string]any{
		"businessId": businessID,
		"topic":      "x",
	}))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if len(f.usage.events) != 1 {
		t.Fatalf("usage events = %d, want 1", len(f.usage.events))
	}
	if f.usage.events[0].Success {
		t.Fatal("failed call recorded as success")
	}
}
