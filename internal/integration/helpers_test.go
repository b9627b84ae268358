package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Fields whose values change run to run and carry no assertion value.
var keysToIgnore = map[string]struct{}{
	"timestamp":  {},
	"requestId":  {},
	"createdAt":  {},
	"bookingId":  {},
	"paymentUrl": {},
	"expiresAt":  {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		switch nested := m[k].(type) {
		case map[string]any:
			cleanMap(nested)
		case []any:
			for _, item := range nested {
				if itemMap, ok := item.(map[string]any); ok {
					cleanMap(itemMap)
				}
			}
		}
	}
}

// resetState wipes every table and all advisory locks so each scenario starts
// from an empty cinema.
func resetState(t testing.TB, app *TestApp) {
	t.Helper()

	_, err := app.DB.Exec(context.Background(), "TRUNCATE booking_seats, bookings, shows RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	require.NoError(t, app.Redis.FlushAll(context.Background()).Err())

	app.Mailer.Reset()
	app.Payments.Refunds = nil
}

func createTestShow(t testing.TB, app *TestApp, rows, seatsPerRow int, price decimal.Decimal) int64 {
	t.Helper()

	var id int64

	err := app.DB.QueryRow(
		context.Background(),
		`INSERT INTO shows (title, seat_rows, seats_per_row, price, starts_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		"Test Show", rows, seatsPerRow, price, time.Now().Add(48*time.Hour),
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func bookingStatus(t testing.TB, app *TestApp, bookingID string) string {
	t.Helper()

	var status string

	err := app.DB.QueryRow(
		context.Background(),
		"SELECT status FROM bookings WHERE id = $1",
		bookingID,
	).Scan(&status)
	require.NoError(t, err)

	return status
}

func seatRowCount(t testing.TB, app *TestApp, showID int64, status string) int {
	t.Helper()

	var count int

	err := app.DB.QueryRow(
		context.Background(),
		"SELECT COUNT(*) FROM booking_seats WHERE show_id = $1 AND status = $2",
		showID, status,
	).Scan(&count)
	require.NoError(t, err)

	return count
}
