package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gas-delivery-api/config"
	"gas-delivery-api/handlers"
	"gas-delivery-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// setupRouter builds the full API over a fresh in-memory database.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.InitDBWithDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	handlers.RegisterValidators()
	r := gin.New()
	routes.SetupRoutes(r, nil)
	return r
}

// doJSON performs one request against the router and returns the recorder.
func doJSON(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func authHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerCustomer signs up a customer and returns their token.
func registerCustomer(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/auth/register", map[string]any{
		"full_name": "Test Customer",
		"email":     email,
		"password":  "abc123",
		"phone":     "0712345678",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)["token"].(string)
}

// provisionDriver creates a driver through the privileged endpoint and
// returns their token from a normal login.
func provisionDriver(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/provision/drivers", map[string]any{
		"full_name": "Test Driver",
		"email":     email,
		"password":  "abc123",
		"phone":     "0712345679",
	}, map[string]string{"X-Provision-Key": config.DriverProvisionKey})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    email,
		"password": "abc123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeBody(t, w)["token"].(string)
}

// createOrder places an order as the given customer and returns its ID.
func createOrder(t *testing.T, r *gin.Engine, token string, size, qty int) uint {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/customer/orders", map[string]any{
		"cylinder_size":    size,
		"quantity":         qty,
		"delivery_address": "123 Ngong Road, Nairobi",
	}, authHeader(token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decodeBody(t, w)["order"].(map[string]any)
	return uint(order["id"].(float64))
}
