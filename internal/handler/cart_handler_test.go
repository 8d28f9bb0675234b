package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahu431/snapbill-service/internal/domain"
	"github.com/rahu431/snapbill-service/internal/model"
)

func newCartRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewCartHandler().RegisterRoutes(router)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReconcileEndpointAppliesActions(t *testing.T) {
	router := newCartRouter()

	w := postJSON(t, router, "/carts/reconcile", model.ReconcileCartRequest{
		Items: []domain.LineItem{
			{ID: "i1", Description: "Coffee", Quantity: 1, Price: 4},
		},
		Actions: []domain.CartAction{
			{Action: "add", Description: "coffee", Quantity: 2},
			{Action: "add", Description: "Bagel", Quantity: 1, Price: 3},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ReconcileCartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 3.0, resp.Items[0].Quantity)
	assert.Equal(t, "Bagel", resp.Items[1].Description)
}

func TestReconcileEndpointDropsInvalidActions(t *testing.T) {
	router := newCartRouter()

	w := postJSON(t, router, "/carts/reconcile", model.ReconcileCartRequest{
		Actions: []domain.CartAction{
			{Action: "explode", Description: "Coffee", Quantity: 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Nothing valid to apply, so the empty cart comes back as the single
	// placeholder row
	var resp model.ReconcileCartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Empty(t, resp.Items[0].Description)
}

func TestReconcileEndpointRejectsMalformedBody(t *testing.T) {
	router := newCartRouter()

	req := httptest.NewRequest(http.MethodPost, "/carts/reconcile", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
