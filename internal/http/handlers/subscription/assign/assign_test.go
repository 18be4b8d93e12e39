package assign

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/commacards/card-subscriptions/internal/models"
)

type MockService struct{ mock.Mock }

func (m *MockService) SetSubscription(ctx context.Context, profileID string, req models.DummySubscription) (models.SubscriptionRecord, error) {
	args := m.Called(ctx, profileID, req)
	return args.Get(0).(models.SubscriptionRecord), args.Error(1)
}

func TestAssignHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)

	tests := []struct {
		name         string
		profileID    string
		body         string
		setupMock    func(*MockService)
		wantStatus   int
		expectedBody string
	}{
		{
			name:      "monthly plan",
			profileID: "p1",
			body:      `{"plan":"Elite","cycle":"monthly"}`,
			setupMock: func(m *MockService) {
				m.On("SetSubscription", mock.Anything, "p1", models.DummySubscription{Plan: "Elite", Cycle: "monthly"}).
					Return(models.SubscriptionRecord{ProfileID: "p1", Plan: "Elite", Cycle: models.CycleMonthly}, nil).Once()
			},
			wantStatus:   http.StatusOK,
			expectedBody: `{"status":"OK","data":{"profileId":"p1","plan":"Elite","cycle":"monthly"}}`,
		},
		{
			name:      "trial with date input",
			profileID: "p2",
			body:      `{"plan":"Novice","cycle":"trial","activatedAt":"2025-03-10"}`,
			setupMock: func(m *MockService) {
				m.On("SetSubscription", mock.Anything, "p2",
					models.DummySubscription{Plan: "Novice", Cycle: "trial", ActivatedAt: "2025-03-10"}).
					Return(models.SubscriptionRecord{ProfileID: "p2", Plan: "Novice", Cycle: models.CycleTrial,
						ActivatedAt: &start, ExpiresAt: &end}, nil).Once()
			},
			wantStatus: http.StatusOK,
			expectedBody: `{"status":"OK","data":{"profileId":"p2","plan":"Novice","cycle":"trial",` +
				`"activatedAt":"2025-03-10T12:00:00Z","expiresAt":"2025-03-17T12:00:00Z"}}`,
		},
		{
			name:      "trials disabled",
			profileID: "p1",
			body:      `{"plan":"Novice","cycle":"trial"}`,
			setupMock: func(m *MockService) {
				m.On("SetSubscription", mock.Anything, "p1", mock.Anything).
					Return(models.SubscriptionRecord{}, fmt.Errorf("lifecycle.StartTrial: %w", models.ErrTrialsDisabled)).Once()
			},
			wantStatus:   http.StatusConflict,
			expectedBody: `{"status":"Error","error":"free trials are disabled"}`,
		},
		{
			name:      "unknown plan",
			profileID: "p1",
			body:      `{"plan":"Platinum","cycle":"monthly"}`,
			setupMock: func(m *MockService) {
				m.On("SetSubscription", mock.Anything, "p1", mock.Anything).
					Return(models.SubscriptionRecord{}, models.ErrUnknownPlan).Once()
			},
			wantStatus:   http.StatusUnprocessableEntity,
			expectedBody: `{"status":"Error","error":"unknown plan"}`,
		},
		{
			name:      "invalid cycle",
			profileID: "p1",
			body:      `{"plan":"Novice","cycle":"yearly"}`,
			setupMock: func(m *MockService) {
				m.On("SetSubscription", mock.Anything, "p1", mock.Anything).
					Return(models.SubscriptionRecord{}, models.ErrInvalidCycle).Once()
			},
			wantStatus:   http.StatusUnprocessableEntity,
			expectedBody: `{"status":"Error","error":"invalid billing cycle"}`,
		},
		{
			name:         "missing cycle",
			profileID:    "p1",
			body:         `{"plan":"Novice"}`,
			setupMock:    func(_ *MockService) {},
			wantStatus:   http.StatusUnprocessableEntity,
			expectedBody: `{"status":"Error","error":"field Cycle is a required field"}`,
		},
		{
			name:         "broken body",
			profileID:    "p1",
			body:         `not json`,
			setupMock:    func(_ *MockService) {},
			wantStatus:   http.StatusBadRequest,
			expectedBody: `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:      "storage failure",
			profileID: "p1",
			body:      `{"plan":"Novice","cycle":"monthly"}`,
			setupMock: func(m *MockService) {
				m.On("SetSubscription", mock.Anything, "p1", mock.Anything).
					Return(models.SubscriptionRecord{}, errors.New("db down")).Once()
			},
			wantStatus:   http.StatusInternalServerError,
			expectedBody: `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			r := chi.NewRouter()
			r.Put("/api/admin/profile/{id}/subscription", New(logger, svc).ServeHTTP)

			req := httptest.NewRequest(http.MethodPut, "/api/admin/profile/"+tt.profileID+"/subscription",
				strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
