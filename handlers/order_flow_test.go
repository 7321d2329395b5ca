package handlers_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"gas-delivery-api/config"
	"gas-delivery-api/handlers"
	"gas-delivery-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderComputesTotal(t *testing.T) {
	r := setupRouter(t)
	token := registerCustomer(t, r, "a@b.com")

	orderID := createOrder(t, r, token, 13, 2)

	var order models.Order
	require.NoError(t, config.DB.First(&order, orderID).Error)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Nil(t, order.DriverID)
	assert.Equal(t, 5600.0, order.TotalAmount) // 2 × 2800
	assert.NotEmpty(t, order.Reference)
}

func TestCreateOrderInvalidCylinder(t *testing.T) {
	r := setupRouter(t)
	token := registerCustomer(t, r, "a@b.com")

	w := doJSON(r, http.MethodPost, "/api/customer/orders", map[string]any{
		"cylinder_size":    7,
		"quantity":         1,
		"delivery_address": "123 Ngong Road",
	}, authHeader(token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomerOrdersNewestFirst(t *testing.T) {
	r := setupRouter(t)
	token := registerCustomer(t, r, "a@b.com")

	first := createOrder(t, r, token, 6, 1)
	second := createOrder(t, r, token, 13, 1)
	third := createOrder(t, r, token, 25, 1)

	w := doJSON(r, http.MethodGet, "/api/customer/orders", nil, authHeader(token))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	orders := body["orders"].([]any)
	require.Len(t, orders, 3)

	got := make([]uint, 0, 3)
	for _, o := range orders {
		got = append(got, uint(o.(map[string]any)["id"].(float64)))
	}
	assert.Equal(t, []uint{third, second, first}, got)
}

func TestAvailableOrdersExcludesClaimed(t *testing.T) {
	r := setupRouter(t)
	customer := registerCustomer(t, r, "a@b.com")
	driver := provisionDriver(t, r, "d@b.com")

	open := createOrder(t, r, customer, 6, 1)
	claimed := createOrder(t, r, customer, 13, 1)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/accept", claimed), nil, authHeader(driver))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/driver/orders/available", nil, authHeader(driver))
	require.Equal(t, http.StatusOK, w.Code)
	orders := decodeBody(t, w)["orders"].([]any)
	require.Len(t, orders, 1)
	assert.Equal(t, float64(open), orders[0].(map[string]any)["id"])
}

func TestAcceptOrderRace(t *testing.T) {
	r := setupRouter(t)
	customer := registerCustomer(t, r, "a@b.com")
	winner := provisionDriver(t, r, "winner@b.com")
	loser := provisionDriver(t, r, "loser@b.com")

	orderID := createOrder(t, r, customer, 13, 1)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/accept", orderID), nil, authHeader(winner))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Second driver loses: conflict, order unchanged
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/accept", orderID), nil, authHeader(loser))
	assert.Equal(t, http.StatusConflict, w.Code)

	var order models.Order
	require.NoError(t, config.DB.First(&order, orderID).Error)
	assert.Equal(t, models.StatusAccepted, order.Status)

	var winnerUser models.User
	require.NoError(t, config.DB.Where("email = ?", "winner@b.com").First(&winnerUser).Error)
	require.NotNil(t, order.DriverID)
	assert.Equal(t, winnerUser.ID, *order.DriverID)
}

func TestOneActiveDeliveryPerDriver(t *testing.T) {
	r := setupRouter(t)
	customer := registerCustomer(t, r, "a@b.com")
	driver := provisionDriver(t, r, "d@b.com")

	first := createOrder(t, r, customer, 6, 1)
	second := createOrder(t, r, customer, 13, 1)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/accept", first), nil, authHeader(driver))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/accept", second), nil, authHeader(driver))
	assert.Equal(t, http.StatusConflict, w.Code)

	// Second order is untouched
	var order models.Order
	require.NoError(t, config.DB.First(&order, second).Error)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Nil(t, order.DriverID)
}

func TestConcurrentAcceptsSingleActiveDelivery(t *testing.T) {
	r := setupRouter(t)
	customer := registerCustomer(t, r, "a@b.com")
	driver := provisionDriver(t, r, "d@b.com")

	var driverUser models.User
	require.NoError(t, config.DB.Where("email = ?", "d@b.com").First(&driverUser).Error)

	for i := 0; i < 25; i++ {
		first := createOrder(t, r, customer, 6, 1)
		second := createOrder(t, r, customer, 13, 1)

		codes := make([]int, 2)
		var wg sync.WaitGroup
		for j, id := range []uint{first, second} {
			wg.Add(1)
			go func(slot int, orderID uint) {
				defer wg.Done()
				w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/accept", orderID), nil, authHeader(driver))
				codes[slot] = w.Code
			}(j, id)
		}
		wg.Wait()

		assert.False(t, codes[0] == http.StatusOK && codes[1] == http.StatusOK,
			"iteration %d: both accepts succeeded", i)

		var active int64
		require.NoError(t, config.DB.Model(&models.Order{}).
			Where("driver_id = ? AND status IN ?", driverUser.ID, models.ActiveStatuses).
			Count(&active).Error)
		assert.LessOrEqual(t, active, int64(1), "iteration %d: driver holds %d active deliveries", i, active)

		// Hand off anything claimed so the next round starts clean
		config.DB.Model(&models.Order{}).
			Where("driver_id = ?", driverUser.ID).
			Update("status", models.StatusDelivered)
	}
}

func TestActiveDelivery(t *testing.T) {
	r := setupRouter(t)
	customer := registerCustomer(t, r, "a@b.com")
	driver := provisionDriver(t, r, "d@b.com")

	w := doJSON(r, http.MethodGet, "/api/driver/orders/active", nil, authHeader(driver))
	assert.Equal(t, http.StatusNotFound, w.Code, "no delivery accepted yet")

	orderID := createOrder(t, r, customer, 13, 1)
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/accept", orderID), nil, authHeader(driver))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/driver/orders/active", nil, authHeader(driver))
	require.Equal(t, http.StatusOK, w.Code)
	order := decodeBody(t, w)["order"].(map[string]any)
	assert.Equal(t, float64(orderID), order["id"])
}

func TestDeliveryProgressionAndSettlement(t *testing.T) {
	r := setupRouter(t)
	customer := registerCustomer(t, r, "a@b.com")
	driver := provisionDriver(t, r, "d@b.com")

	orderID := createOrder(t, r, customer, 25, 1) // 5000 KES
	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/accept", orderID), nil, authHeader(driver))
	require.Equal(t, http.StatusOK, w.Code)

	// Skipping a state is rejected
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/status", orderID),
		map[string]any{"status": models.StatusDelivered}, authHeader(driver))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	for _, status := range []models.OrderStatus{
		models.StatusPickedUp, models.StatusOnTheWay, models.StatusDelivered,
	} {
		w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/status", orderID),
			map[string]any{"status": status}, authHeader(driver))
		require.Equal(t, http.StatusOK, w.Code, "transition to %s: %s", status, w.Body.String())
	}

	// Terminal: nothing moves on from delivered
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/status", orderID),
		map[string]any{"status": models.StatusPending}, authHeader(driver))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Driver earning: 15% of 5000
	var earning models.DriverEarning
	require.NoError(t, config.DB.Where("order_id = ?", orderID).First(&earning).Error)
	assert.Equal(t, 5000*handlers.DriverCommissionRate, earning.Amount)

	// Customer loyalty: 1 point per 100 KES
	var customerUser models.User
	require.NoError(t, config.DB.Where("email = ?", "a@b.com").First(&customerUser).Error)
	var lp models.LoyaltyPoint
	require.NoError(t, config.DB.Where("user_id = ?", customerUser.ID).First(&lp).Error)
	assert.Equal(t, 50, lp.Points)

	// No active delivery remains
	w = doJSON(r, http.MethodGet, "/api/driver/orders/active", nil, authHeader(driver))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOnlyAssignedDriverProgresses(t *testing.T) {
	r := setupRouter(t)
	customer := registerCustomer(t, r, "a@b.com")
	assigned := provisionDriver(t, r, "assigned@b.com")
	other := provisionDriver(t, r, "other@b.com")

	orderID := createOrder(t, r, customer, 6, 1)
	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/accept", orderID), nil, authHeader(assigned))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/status", orderID),
		map[string]any{"status": models.StatusPickedUp}, authHeader(other))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCancellationRules(t *testing.T) {
	r := setupRouter(t)
	customer := registerCustomer(t, r, "a@b.com")
	driver := provisionDriver(t, r, "d@b.com")

	// Pending order cancels fine
	pending := createOrder(t, r, customer, 6, 1)
	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/customer/orders/%d/cancel", pending), nil, authHeader(customer))
	assert.Equal(t, http.StatusOK, w.Code)

	// Accepted order still cancels
	accepted := createOrder(t, r, customer, 6, 1)
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/accept", accepted), nil, authHeader(driver))
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/customer/orders/%d/cancel", accepted), nil, authHeader(customer))
	assert.Equal(t, http.StatusOK, w.Code)

	// Picked up: too late to cancel
	pickedUp := createOrder(t, r, customer, 6, 1)
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/accept", pickedUp), nil, authHeader(driver))
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/status", pickedUp),
		map[string]any{"status": models.StatusPickedUp}, authHeader(driver))
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/customer/orders/%d/cancel", pickedUp), nil, authHeader(customer))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestOrderOwnership(t *testing.T) {
	r := setupRouter(t)
	owner := registerCustomer(t, r, "owner@b.com")

	w := doJSON(r, http.MethodPost, "/api/auth/register", map[string]any{
		"full_name": "Other Customer",
		"email":     "other@b.com",
		"password":  "abc123",
		"phone":     "0712345670",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	other := decodeBody(t, w)["token"].(string)

	orderID := createOrder(t, r, owner, 6, 1)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/customer/orders/%d", orderID), nil, authHeader(other))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/customer/orders/%d/cancel", orderID), nil, authHeader(other))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleGatesOnRoutes(t *testing.T) {
	r := setupRouter(t)
	customer := registerCustomer(t, r, "a@b.com")
	driver := provisionDriver(t, r, "d@b.com")

	// Customer on a driver route
	w := doJSON(r, http.MethodGet, "/api/driver/orders/available", nil, authHeader(customer))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Driver on a customer route
	w = doJSON(r, http.MethodPost, "/api/customer/orders", map[string]any{
		"cylinder_size": 6, "quantity": 1, "delivery_address": "x",
	}, authHeader(driver))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSafetyTips(t *testing.T) {
	r := setupRouter(t)
	token := registerCustomer(t, r, "a@b.com")

	w := doJSON(r, http.MethodGet, "/api/safety-tips", nil, authHeader(token))
	require.Equal(t, http.StatusOK, w.Code)
	tips := decodeBody(t, w)["tips"].([]any)
	assert.Len(t, tips, 5)
}

func TestOrderQR(t *testing.T) {
	r := setupRouter(t)
	token := registerCustomer(t, r, "a@b.com")
	orderID := createOrder(t, r, token, 6, 1)

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/api/customer/orders/%d/qr", orderID), nil, authHeader(token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestEarningsListingAndExport(t *testing.T) {
	r := setupRouter(t)
	customer := registerCustomer(t, r, "a@b.com")
	driver := provisionDriver(t, r, "d@b.com")

	orderID := createOrder(t, r, customer, 13, 1) // 2800 KES
	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/accept", orderID), nil, authHeader(driver))
	require.Equal(t, http.StatusOK, w.Code)
	for _, status := range []models.OrderStatus{
		models.StatusPickedUp, models.StatusOnTheWay, models.StatusDelivered,
	} {
		w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/driver/orders/%d/status", orderID),
			map[string]any{"status": status}, authHeader(driver))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/driver/earnings", nil, authHeader(driver))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 2800*handlers.DriverCommissionRate, body["total"])
	assert.Len(t, body["earnings"].([]any), 1)

	w = doJSON(r, http.MethodGet, "/api/driver/earnings/export", nil, authHeader(driver))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "earnings.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestLoyaltyStartsAtZero(t *testing.T) {
	r := setupRouter(t)
	token := registerCustomer(t, r, "a@b.com")

	w := doJSON(r, http.MethodGet, "/api/customer/loyalty", nil, authHeader(token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["points"])
}
