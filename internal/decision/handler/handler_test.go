package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearway/internal/decision"
	id "clearway/pkg/domain"
	dErrors "clearway/pkg/domain-errors"
)

type mockService struct {
	calls   int
	lastReq decision.Request
	err     error
}

func (m *mockService) Decide(_ context.Context, req decision.Request) (*decision.Outcome, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &decision.Outcome{
		Success:     true,
		CaseID:      req.CaseID,
		Action:      req.Action,
		ClientEmail: "jane@example.com",
	}, nil
}

func newTestRouter(svc *mockService) http.Handler {
	r := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler)).Register(r)
	return r
}

func TestHandleDecision(t *testing.T) {
	caseID := id.NewCaseID()

	t.Run("valid request decides", func(t *testing.T) {
		svc := &mockService{}
		req := httptest.NewRequest(http.MethodGet,
			fmt.Sprintf("/decision?caseId=%s&action=approve&token=tok", caseID), nil)
		req.Header.Set("User-Agent", "reviewer-mail-client/1.0")
		rec := httptest.NewRecorder()

		newTestRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var outcome decision.Outcome
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
		assert.True(t, outcome.Success)
		assert.Equal(t, decision.ActionApprove, outcome.Action)
		assert.Equal(t, "reviewer-mail-client/1.0", svc.lastReq.UserAgent)
	})

	t.Run("missing parameters never reach the service", func(t *testing.T) {
		urls := []string{
			"/decision",
			fmt.Sprintf("/decision?caseId=%s&action=approve", caseID),
			fmt.Sprintf("/decision?caseId=%s&token=tok", caseID),
			"/decision?action=approve&token=tok",
		}
		for _, u := range urls {
			svc := &mockService{}
			rec := httptest.NewRecorder()
			newTestRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, u, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code, u)
			assert.Zero(t, svc.calls, u)
		}
	})

	t.Run("unknown action is rejected before the service", func(t *testing.T) {
		svc := &mockService{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			fmt.Sprintf("/decision?caseId=%s&action=escalate&token=tok", caseID), nil)

		newTestRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, svc.calls)
	})

	t.Run("unparseable case id is rejected", func(t *testing.T) {
		svc := &mockService{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/decision?caseId=nope&action=approve&token=tok", nil)

		newTestRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, svc.calls)
	})

	t.Run("used token maps to conflict", func(t *testing.T) {
		svc := &mockService{err: dErrors.New(dErrors.CodeTokenUsed, "decision token already used")}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			fmt.Sprintf("/decision?caseId=%s&action=approve&token=tok", caseID), nil)

		newTestRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown case maps to not found", func(t *testing.T) {
		svc := &mockService{err: dErrors.New(dErrors.CodeNotFound, "case not found")}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			fmt.Sprintf("/decision?caseId=%s&action=approve&token=tok", caseID), nil)

		newTestRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
