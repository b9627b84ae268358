package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/barisyildiz/cinema-booking-system/api"
	"github.com/barisyildiz/cinema-booking-system/internal/mailer"
	"github.com/barisyildiz/cinema-booking-system/internal/mocks"
	"github.com/barisyildiz/cinema-booking-system/internal/validator"
)

const testWebhookSecret = "whsec_test_secret"

type testMocks struct {
	showRepo    *mocks.MockShowRepo
	bookingRepo *mocks.MockBookingRepo
	locker      *mocks.MockLocker
	scheduler   *mocks.MockExpiryScheduler
	payments    *mocks.MockPaymentProvider
	mailer      *mailer.MockMailer
}

func newTestMocks() *testMocks {
	return &testMocks{
		showRepo:    new(mocks.MockShowRepo),
		bookingRepo: new(mocks.MockBookingRepo),
		locker:      new(mocks.MockLocker),
		scheduler:   new(mocks.MockExpiryScheduler),
		payments:    new(mocks.MockPaymentProvider),
		mailer:      mailer.NewMockMailer(),
	}
}

func newTestApplication(m *testMocks) *Application {
	cfg := Config{
		Env: "test",
		Stripe: StripeConfig{
			WebhookSecret: testWebhookSecret,
		},
	}

	return NewApp(
		cfg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		nil,
		nil,
		validator.NewValidator(),
		m.mailer,
		m.showRepo,
		m.bookingRepo,
		m.locker,
		m.scheduler,
		m.payments,
	)
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	switch wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if wantErrMessage != "" && !errorSet[wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if wantErrMessage != "" && errorResp.Message != wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
