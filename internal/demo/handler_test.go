package demo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avelar/ghostwriter-backend/internal/models"
)

type fakeLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (f *fakeLimiter) Allow(_ context.Context, ip, op string) (bool, error) {
	f.keys = append(f.keys, ip+"|"+op)
	return f.allow, f.err
}

type fakeModel struct {
	reply string
	err   error
	calls int
}

func (f *fakeModel) Complete(_ context.Context, _ string, _ string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func doJSON(handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

var longSamples = strings.Repeat("Anonymous visitor pastes some posts here. ", 5)

func TestSampleProfile(t *testing.T) {
	h := NewHandler(&fakeModel{}, &fakeLimiter{allow: true}, zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	h.SampleProfile(rec, httptest.NewRequest(http.MethodGet, "/api/demo/sample-profile", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		SamplePosts string              `json:"sample_posts"`
		Extracted   models.StyleProfile `json:"extracted_profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SamplePosts)
	assert.NotEmpty(t, resp.Extracted.Tone)
}

func TestAnalyzeVoice(t *testing.T) {
	limiter := &fakeLimiter{allow: true}
	model := &fakeModel{reply: `{"tone": "casual", "summary": "easy going"}`}
	h := NewHandler(model, limiter, zap.NewNop().Sugar())

	rec := doJSON(h.AnalyzeVoice, models.AnalyzeRequest{RawSamples: longSamples})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.VoiceProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "demo", resp.UserID)
	assert.Equal(t, "casual", resp.Extracted.Tone)
	assert.True(t, strings.HasPrefix(resp.ID, "demo-profile-"))

	// Counted once against the caller's address under the analyze op.
	require.Len(t, limiter.keys, 1)
	assert.Equal(t, "192.0.2.1|demo-analyze", limiter.keys[0])
}

func TestAnalyzeVoiceLimited(t *testing.T) {
	limiter := &fakeLimiter{allow: false}
	model := &fakeModel{}
	h := NewHandler(model, limiter, zap.NewNop().Sugar())

	rec := doJSON(h.AnalyzeVoice, models.AnalyzeRequest{RawSamples: longSamples})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 0, model.calls, "limited request must not reach the model")
}

func TestAnalyzeVoiceDegradesOpenOnLimiterError(t *testing.T) {
	limiter := &fakeLimiter{err: fmt.Errorf("redis down")}
	model := &fakeModel{reply: `{"tone": "casual"}`}
	h := NewHandler(model, limiter, zap.NewNop().Sugar())

	rec := doJSON(h.AnalyzeVoice, models.AnalyzeRequest{RawSamples: longSamples})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, model.calls)
}

func TestAnalyzeVoiceShortSamples(t *testing.T) {
	limiter := &fakeLimiter{allow: true}
	h := NewHandler(&fakeModel{}, limiter, zap.NewNop().Sugar())

	rec := doJSON(h.AnalyzeVoice, models.AnalyzeRequest{RawSamples: "too short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, limiter.keys, "rejected input is not counted against the limit")
}

func TestGenerateUnsavedDrafts(t *testing.T) {
	model := &fakeModel{reply: `[{"content": "demo draft", "tag": "Punchy"}]`}
	h := NewHandler(model, &fakeLimiter{allow: true}, zap.NewNop().Sugar())

	rec := doJSON(h.Generate, models.GenerateRequest{Topic: "remote work"})
	require.Equal(t, http.StatusOK, rec.Code)

	var drafts []models.DraftPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &drafts))
	require.Len(t, drafts, 1)
	assert.Equal(t, "demo", drafts[0].UserID)
	assert.True(t, strings.HasPrefix(drafts[0].ID, "demo-"))
	assert.Equal(t, "remote work", drafts[0].Topic)
}

func TestGenerateFallbackOnModelError(t *testing.T) {
	model := &fakeModel{err: fmt.Errorf("upstream unavailable")}
	h := NewHandler(model, &fakeLimiter{allow: true}, zap.NewNop().Sugar())

	rec := doJSON(h.Generate, models.GenerateRequest{Topic: "remote work"})
	require.Equal(t, http.StatusOK, rec.Code)

	var drafts []models.DraftPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &drafts))
	assert.Len(t, drafts, 5)
}

func TestGenerateRequiresTopic(t *testing.T) {
	h := NewHandler(&fakeModel{}, &fakeLimiter{allow: true}, zap.NewNop().Sugar())

	rec := doJSON(h.Generate, models.GenerateRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateWithProfileOverridesStyle(t *testing.T) {
	model := &fakeModel{reply: `[{"content": "styled draft", "tag": "Story"}]`}
	h := NewHandler(model, &fakeLimiter{allow: true}, zap.NewNop().Sugar())

	body := map[string]interface{}{
		"topic":   "remote work",
		"profile": models.StyleProfile{Tone: "sarcastic", Summary: "bite"},
	}
	rec := doJSON(h.GenerateWithProfile, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var drafts []models.DraftPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &drafts))
	require.Len(t, drafts, 1)
	assert.Equal(t, []string{"Story"}, drafts[0].Tags)
}
