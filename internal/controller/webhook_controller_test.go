package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"member-portal-be/internal/dto"
	"member-portal-be/internal/pkg/apperr"
	"member-portal-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

type stubWebhookService struct {
	ack    *dto.WebhookAck
	err    error
	status *dto.EventStatusResponse

	gotBody      []byte
	gotSignature string
}

func (s *stubWebhookService) HandleEvent(ctx context.Context, rawBody []byte, signatureHeader string) (*dto.WebhookAck, error) {
	s.gotBody = rawBody
	s.gotSignature = signatureHeader
	if s.err != nil {
		return nil, s.err
	}
	return s.ack, nil
}

func (s *stubWebhookService) GetEventStatus(ctx context.Context, eventId string) (*dto.EventStatusResponse, error) {
	return s.status, s.err
}

const testJwtSecret = "controller-test-secret"

func newTestApp(svc *stubWebhookService) *fiber.App {
	app := fiber.New()
	NewWebhookController(svc).RegisterRoutes(app.Group("/api"), serverutils.NewJwtMiddleware(testJwtSecret))
	return app
}

func postPayment(t *testing.T, app *fiber.App, signature string) (int, dto.WebhookAck) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/webhook/payment", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("signature", signature)
	}
	resp, err := app.Test(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var ack dto.WebhookAck
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &ack))
	return resp.StatusCode, ack
}

func TestHandlePaymentStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		ack        *dto.WebhookAck
		err        error
		wantStatus int
		wantAck    dto.WebhookAck
	}{
		{
			name:       "success acks with 200",
			ack:        &dto.WebhookAck{Received: true},
			wantStatus: 200,
			wantAck:    dto.WebhookAck{Received: true},
		},
		{
			name:       "authentication failure is 400",
			err:        apperr.Newf(apperr.KindAuthentication, "", "signature digest mismatch"),
			wantStatus: 400,
			wantAck:    dto.WebhookAck{Received: false, Message: "invalid signature"},
		},
		{
			name:       "validation failure acks flagged with 200",
			err:        apperr.Newf(apperr.KindValidation, "evt_1", "malformed cart payload"),
			wantStatus: 200,
			wantAck:    dto.WebhookAck{Received: true, Flagged: true, Message: "malformed metadata, flagged for review"},
		},
		{
			name:       "conflict is 500",
			err:        apperr.Newf(apperr.KindConflict, "evt_1", "create race lost twice"),
			wantStatus: 500,
		},
		{
			name:       "transient failure is 500",
			err:        apperr.Newf(apperr.KindTransient, "evt_1", "db down"),
			wantStatus: 500,
		},
		{
			name:       "untagged error is 500",
			err:        errors.New("something unexpected"),
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubWebhookService{ack: tt.ack, err: tt.err}
			app := newTestApp(svc)

			status, ack := postPayment(t, app, "t=1,v1=abc")
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantAck != (dto.WebhookAck{}) {
				assert.Equal(t, tt.wantAck, ack)
			}
		})
	}
}

func TestHandlePaymentPassesRawBodyAndSignature(t *testing.T) {
	svc := &stubWebhookService{ack: &dto.WebhookAck{Received: true}}
	app := newTestApp(svc)

	status, _ := postPayment(t, app, "t=1700000000,v1=deadbeef")
	assert.Equal(t, 200, status)
	assert.Equal(t, `{"id":"evt_1"}`, string(svc.gotBody))
	assert.Equal(t, "t=1700000000,v1=deadbeef", svc.gotSignature)
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(&stubWebhookService{})
	req := httptest.NewRequest("GET", "/api/webhook/health", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestGetEventStatusRequiresAuth(t *testing.T) {
	svc := &stubWebhookService{status: &dto.EventStatusResponse{EventId: "evt_1", Status: "done"}}
	app := newTestApp(svc)

	req := httptest.NewRequest("GET", "/api/webhook/events/evt_1", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestGetEventStatusAcceptsSignedToken(t *testing.T) {
	svc := &stubWebhookService{status: &dto.EventStatusResponse{EventId: "evt_1", Status: "done"}}
	app := newTestApp(svc)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "ops"})
	signed, err := token.SignedString([]byte(testJwtSecret))
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/webhook/events/evt_1", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// A token signed with the wrong key is rejected even though it parses.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "ops"})
	forgedStr, err := forged.SignedString([]byte("some-other-secret"))
	assert.NoError(t, err)

	req = httptest.NewRequest("GET", "/api/webhook/events/evt_1", nil)
	req.Header.Set("Authorization", "Bearer "+forgedStr)
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
