package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lefade-api/internal/config"
	"github.com/BruksfildServices01/lefade-api/internal/db/dbtest"
	"github.com/BruksfildServices01/lefade-api/internal/identity"
	"github.com/BruksfildServices01/lefade-api/internal/models"
	"github.com/BruksfildServices01/lefade-api/internal/payments"
	"github.com/BruksfildServices01/lefade-api/internal/payments/paymentstest"
)

const (
	jwtSecret     = "route-test-secret"
	webhookSecret = "whsec_route_test"
)

type harness struct {
	t       *testing.T
	db      *gorm.DB
	router  *gin.Engine
	gateway *paymentstest.Fake
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := dbtest.New(t)
	gw := &paymentstest.Fake{}

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB: gdb,
		Config: &config.Config{
			AppURL:              "https://lefade.example",
			DefaultTimezone:     "America/New_York",
			StripeWebhookSecret: webhookSecret,
		},
		Gateway:  gw,
		Verifier: identity.NewHMACVerifier(jwtSecret),
		Catalog:  dbtest.Catalog(),
	})

	return &harness{t: t, db: gdb, router: r, gateway: gw}
}

func (h *harness) token(sub string) string {
	h.t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": sub + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(jwtSecret))
	require.NoError(h.t, err)
	return tok
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) webhook(payload []byte, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(payload))
	if header != "" {
		req.Header.Set("Stripe-Signature", header)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func signed(t *testing.T, event map[string]any) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  webhookSecret,
	})
	return sp.Payload, sp.Header
}

func TestPublicRoutes(t *testing.T) {
	h := newHarness(t)
	dbtest.CreateUser(t, h.db, "seed|barber", "BARBER")

	w := h.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/api/v1/plans", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	plans := decode[struct {
		Data  []models.Plan `json:"data"`
		Total int           `json:"total"`
	}](t, w)
	assert.Equal(t, 2, plans.Total)

	w = h.do(http.MethodGet, "/api/v1/barbers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"seed|barber"`)

	w = h.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/api/v1/bookings", "/api/v1/me", "/api/v1/admin/metrics"} {
		w := h.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRoleGates(t *testing.T) {
	h := newHarness(t)
	dbtest.CreateUser(t, h.db, "auth0|owner", "OWNER")
	dbtest.CreateUser(t, h.db, "auth0|barber", "BARBER")

	client := h.token("auth0|client")

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/api/v1/admin/metrics", client, nil).Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/api/v1/barber/appointments", client, nil).Code)

	barber := h.token("auth0|barber")
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/v1/barber/appointments?date=2030-01-07", barber, nil).Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/api/v1/admin/audit-logs", barber, nil).Code)

	owner := h.token("auth0|owner")
	w := h.do(http.MethodGet, "/api/v1/admin/metrics", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"completionRate":1`)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/v1/barber/appointments", owner, nil).Code)
}

func TestBookingPaymentAndWebhookFlow(t *testing.T) {
	h := newHarness(t)
	barber := dbtest.CreateUser(t, h.db, "seed|barber", "BARBER")
	tok := h.token("auth0|client")

	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Minute)
	booking := map[string]any{
		"barberId":       barber.ID,
		"startsAtUTC":    start.Format(time.RFC3339),
		"idempotencyKey": "book-1",
	}

	w := h.do(http.MethodPost, "/api/v1/bookings", tok, booking)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		AppointmentID uint   `json:"appointmentId"`
		Status        string `json:"status"`
	}](t, w)
	assert.Equal(t, "created", created.Status)

	w = h.do(http.MethodPost, "/api/v1/bookings", tok, booking)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"duplicate"`)

	w = h.do(http.MethodPost, "/api/v1/bookings", h.token("auth0|other"), map[string]any{
		"barberId":       barber.ID,
		"startsAtUTC":    start.Add(15 * time.Minute).Format(time.RFC3339),
		"idempotencyKey": "book-2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(http.MethodGet, "/api/v1/bookings?limit=5", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"id":%d`, created.AppointmentID))

	w = h.do(http.MethodPost, "/api/v1/payments/intent", tok, map[string]any{
		"appointmentId":  created.AppointmentID,
		"amount":         3999,
		"idempotencyKey": "pay-1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	intent := decode[struct {
		PaymentIntentID string `json:"paymentIntentId"`
		ClientSecret    string `json:"clientSecret"`
	}](t, w)
	assert.NotEmpty(t, intent.ClientSecret)

	payload, header := signed(t, map[string]any{
		"id":     "evt_route_1",
		"object": "event",
		"type":   "payment_intent.succeeded",
		"data": map[string]any{
			"object": map[string]any{
				"id":       intent.PaymentIntentID,
				"object":   "payment_intent",
				"status":   "succeeded",
				"metadata": map[string]string{"appointmentId": fmt.Sprint(created.AppointmentID)},
			},
		},
	})

	w = h.webhook(payload, header)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"outcome":"applied"`)

	w = h.webhook(payload, header)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"outcome":"duplicate"`)

	var ap models.Appointment
	require.NoError(t, h.db.First(&ap, created.AppointmentID).Error)
	assert.Equal(t, "CONFIRMED", ap.Status)

	var p models.Payment
	require.NoError(t, h.db.Where("external_ref = ?", intent.PaymentIntentID).First(&p).Error)
	assert.Equal(t, "COMPLETED", p.Status)

	w = h.do(http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/cancel", created.AppointmentID), tok, map[string]any{
		"reason": "schedule change",
		"refund": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"completed"`)
	require.Len(t, h.gateway.Refunds, 1)
	assert.Equal(t, int64(3999), h.gateway.Refunds[0].Amount)
}

func TestWebhookSignatureErrors(t *testing.T) {
	h := newHarness(t)
	payload, header := signed(t, map[string]any{"id": "evt_x", "object": "event", "type": "ping", "data": map[string]any{"object": map[string]any{}}})

	w := h.webhook(payload, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_signature")

	w = h.webhook(append(payload, ' '), header)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_signature")

	w = h.webhook(payload, header)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"outcome":"ignored"`)
}

func TestCheckoutAndCurrentSubscription(t *testing.T) {
	h := newHarness(t)
	tok := h.token("auth0|member")

	w := h.do(http.MethodGet, "/api/v1/me/subscription", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subscription":null}`, w.Body.String())

	w = h.do(http.MethodPost, "/api/v1/subscriptions/checkout", tok, map[string]string{"planId": "deluxe"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"sessionId":"cs_fake_`)

	w = h.do(http.MethodPost, "/api/v1/subscriptions/checkout", tok, map[string]string{"planId": "gold"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkingHoursFeedAvailability(t *testing.T) {
	h := newHarness(t)
	barber := dbtest.CreateUser(t, h.db, "auth0|barber", "BARBER")
	tok := h.token("auth0|barber")

	day := time.Now().AddDate(0, 0, 7)
	w := h.do(http.MethodPut, "/api/v1/barber/working-hours", tok, map[string]any{
		"timezone": "America/New_York",
		"days": []map[string]any{
			{"weekday": int(day.Weekday()), "active": true, "startTime": "09:00", "endTime": "11:00"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodGet, "/api/v1/barber/working-hours", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"startTime":"09:00"`)

	path := fmt.Sprintf("/api/v1/barbers/%d/availability?date=%s", barber.ID, day.Format("2006-01-02"))
	w = h.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	slots := decode[struct {
		Slots []struct {
			Label string `json:"label"`
		} `json:"slots"`
	}](t, w)
	require.Len(t, slots.Slots, 4)
	assert.Equal(t, "09:00", slots.Slots[0].Label)
	assert.Equal(t, "10:30", slots.Slots[3].Label)

	w = h.do(http.MethodPut, "/api/v1/barber/working-hours", tok, map[string]any{
		"days": []map[string]any{{"weekday": 1, "startTime": "18:00", "endTime": "09:00"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentIntentDisabledBeforeValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:       dbtest.New(t),
		Config:   &config.Config{AppURL: "https://lefade.example", DefaultTimezone: "America/New_York"},
		Gateway:  payments.Disabled{},
		Verifier: identity.NewHMACVerifier(jwtSecret),
		Catalog:  dbtest.Catalog(),
	})
	h := &harness{t: t, router: r}
	token := h.token("auth0|client")

	for name, body := range map[string]any{
		"amount below minimum": map[string]any{"appointmentId": 1, "amount": 10, "idempotencyKey": "k"},
		"empty body":           map[string]any{},
	} {
		t.Run(name, func(t *testing.T) {
			w := h.do(http.MethodPost, "/api/v1/payments/intent", token, body)
			assert.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())
			assert.Equal(t, "payment_processing_disabled", decode[map[string]any](t, w)["code"])
		})
	}
}
