package controllers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amrahulsaini/casebuddy-sub000/controllers"
	"github.com/amrahulsaini/casebuddy-sub000/models"
	"github.com/amrahulsaini/casebuddy-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakePaymentService struct {
	secretSet     bool
	validSig      string
	processed     [][]byte
	processErr    *services.ServiceError
	confirmResult models.ConfirmPaymentResult
	confirmErr    *services.ServiceError
	confirmedID   uint
}

func (f *fakePaymentService) SignatureConfigured() bool { return f.secretSet }

func (f *fakePaymentService) SignatureValid(_ []byte, signature string) bool {
	return signature == f.validSig
}

func (f *fakePaymentService) ProcessWebhook(_ context.Context, rawBody []byte) *services.ServiceError {
	f.processed = append(f.processed, rawBody)
	return f.processErr
}

func (f *fakePaymentService) ConfirmPayment(_ context.Context, orderID uint) (models.ConfirmPaymentResult, *services.ServiceError) {
	f.confirmedID = orderID
	return f.confirmResult, f.confirmErr
}

func newPaymentRouter(svc services.PaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	pc := controllers.NewPaymentController(svc, logger)
	r := gin.New()
	r.POST("/webhooks/payment", pc.HandleWebhook)
	r.POST("/payments/confirm", pc.ConfirmPayment)
	return r
}

func TestHandleWebhook_ValidSignature(t *testing.T) {
	svc := &fakePaymentService{secretSet: true, validSig: "sig-ok"}
	router := newPaymentRouter(svc)

	body := []byte(`{"type":"PAYMENT_SUCCESS_WEBHOOK"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
	req.Header.Set("x-webhook-signature", "sig-ok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	if assert.Len(t, svc.processed, 1) {
		assert.Equal(t, body, svc.processed[0])
	}
}

func TestHandleWebhook_InvalidSignatureRejectedBeforeProcessing(t *testing.T) {
	svc := &fakePaymentService{secretSet: true, validSig: "sig-ok"}
	router := newPaymentRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("x-webhook-signature", "forged")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid signature"}`, w.Body.String())
	// nothing reached the service, so no order state could have changed
	assert.Empty(t, svc.processed)
}

func TestHandleWebhook_NoSecretSoftMode(t *testing.T) {
	svc := &fakePaymentService{secretSet: false}
	router := newPaymentRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader([]byte(`{"type":"x"}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, svc.processed, 1)
}

func TestHandleWebhook_ServiceError(t *testing.T) {
	svc := &fakePaymentService{
		secretSet:  false,
		processErr: &services.ServiceError{StatusCode: 500, Message: "Failed to update order"},
	}
	router := newPaymentRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader([]byte(`{"type":"PAYMENT_SUCCESS_WEBHOOK"}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to update order"}`, w.Body.String())
}

func TestConfirmPayment_Success(t *testing.T) {
	svc := &fakePaymentService{
		confirmResult: models.ConfirmPaymentResult{Success: true, Message: "Payment verified", PaymentStatus: "PAID"},
	}
	router := newPaymentRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/payments/confirm", bytes.NewReader([]byte(`{"orderId":42}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(42), svc.confirmedID)
	assert.JSONEq(t, `{"success":true,"message":"Payment verified","paymentStatus":"PAID"}`, w.Body.String())
}

func TestConfirmPayment_InvalidBody(t *testing.T) {
	svc := &fakePaymentService{}
	router := newPaymentRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/payments/confirm", bytes.NewReader([]byte(`{orderId`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmPayment_ServiceError(t *testing.T) {
	svc := &fakePaymentService{
		confirmErr: &services.ServiceError{StatusCode: 500, Message: "Failed to verify payment with gateway", Details: "connection refused"},
	}
	router := newPaymentRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/payments/confirm", bytes.NewReader([]byte(`{"orderId":42}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to verify payment with gateway")
}
