package payments

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/noah-wardlow/tt/internal/config"
)

func newTestHandler(cfg config.StripeConfig, verify VerifyFunc) (*WebhookHandler, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	handler := &WebhookHandler{
		cfg:    cfg,
		logger: zap.NewNop(),
		events: NewEventLog(10),
		verify: verify,
	}
	router := gin.New()
	handler.RegisterRoutes(router, func(c *gin.Context) { c.Next() })
	return handler, router
}

func configured() config.StripeConfig {
	return config.StripeConfig{
		SecretKey:            "sk_test_123",
		ConnectWebhookSecret: "whsec_connect",
	}
}

func post(router *gin.Engine, signature, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/stripe/connect-webhook", strings.NewReader(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWebhookMissingSignature(t *testing.T) {
	verifierCalled := false
	_, router := newTestHandler(configured(), func(payload []byte, sig, secret string) (stripe.Event, error) {
		verifierCalled = true
		return stripe.Event{}, nil
	})

	rec := post(router, "", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing stripe-signature header", rec.Body.String())
	require.False(t, verifierCalled, "verifier must not run without a signature header")
}

func TestWebhookMissingConfiguration(t *testing.T) {
	_, router := newTestHandler(config.StripeConfig{}, func(payload []byte, sig, secret string) (stripe.Event, error) {
		return stripe.Event{}, nil
	})

	rec := post(router, "t=1,v1=abc", `{}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Connect webhook handler not configured", rec.Body.String())
}

func TestWebhookVerificationFailure(t *testing.T) {
	_, router := newTestHandler(configured(), func(payload []byte, sig, secret string) (stripe.Event, error) {
		return stripe.Event{}, errors.New("signature mismatch")
	})

	rec := post(router, "t=1,v1=bad", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Connect webhook signature verification failed.")
	require.Contains(t, rec.Body.String(), "signature mismatch")
}

func TestWebhookKnownEventAcknowledged(t *testing.T) {
	handler, router := newTestHandler(configured(), func(payload []byte, sig, secret string) (stripe.Event, error) {
		return stripe.Event{
			ID:      "evt_1",
			Type:    "payout.paid",
			Account: "acct_1",
			Data:    &stripe.EventData{Object: map[string]interface{}{"id": "po_1"}},
		}, nil
	})

	rec := post(router, "t=1,v1=good", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"received": true}`, rec.Body.String())

	events := handler.events.Snapshot()
	require.Len(t, events, 1)
	require.Equal(t, "payout.paid", events[0].Type)
	require.Equal(t, "acct_1", events[0].Account)
}

func TestWebhookUnknownEventStillAcknowledged(t *testing.T) {
	_, router := newTestHandler(configured(), func(payload []byte, sig, secret string) (stripe.Event, error) {
		return stripe.Event{
			ID:   "evt_2",
			Type: "charge.succeeded",
			Data: &stripe.EventData{Object: map[string]interface{}{}},
		}, nil
	})

	rec := post(router, "t=1,v1=good", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"received": true}`, rec.Body.String())
}

func TestWebhookEventWithoutPayloadAcknowledged(t *testing.T) {
	handler, router := newTestHandler(configured(), func(payload []byte, sig, secret string) (stripe.Event, error) {
		return stripe.Event{ID: "evt_nil", Type: "payout.paid"}, nil
	})

	rec := post(router, "t=1,v1=good", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"received": true}`, rec.Body.String())

	events := handler.events.Snapshot()
	require.Len(t, events, 1)
	require.Equal(t, "evt_nil", events[0].ID)
}

func TestRecentEventsRoute(t *testing.T) {
	handler, router := newTestHandler(configured(), func(payload []byte, sig, secret string) (stripe.Event, error) {
		return stripe.Event{ID: "evt_3", Type: "transfer.created", Data: &stripe.EventData{}}, nil
	})
	handler.events.Append(EventRecord{ID: "evt_0", Type: "payout.created"})

	req := httptest.NewRequest(http.MethodGet, "/stripe/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "payout.created")
}
