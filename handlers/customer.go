package handlers

import (
	"net/http"

	"gas-delivery-api/config"
	"gas-delivery-api/middleware"
	"gas-delivery-api/models"
	"gas-delivery-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

type CreateOrderRequest struct {
	CylinderSize    int    `json:"cylinder_size" binding:"required"`
	Quantity        int    `json:"quantity" binding:"required,min=1"`
	DeliveryAddress string `json:"delivery_address" binding:"required"`
	Notes           string `json:"notes"`
}

// CreateOrder places a new gas order (customer only). The total is computed
// server-side from the cylinder catalog; clients never set prices.
func CreateOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, ok := models.CylinderPrices[req.CylinderSize]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cylinder size. Available sizes: 6, 13, 25, 50 kg"})
		return
	}

	order := models.Order{
		Reference:       uuid.NewString(),
		CustomerID:      customerID,
		Status:          models.StatusPending,
		CylinderSize:    req.CylinderSize,
		Quantity:        req.Quantity,
		TotalAmount:     price * float64(req.Quantity),
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	}

	if err := config.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	history := models.OrderStatusHistory{
		OrderID:   order.ID,
		ToStatus:  models.StatusPending,
		ChangedBy: customerID,
		Note:      "Order placed by customer",
	}
	config.DB.Create(&history)
	recordCreated()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetMyOrders returns the customer's orders, newest first
func GetMyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Driver").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order's full detail with history
func GetOrderDetail(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.
		Preload("StatusHistory").
		Preload("Driver").
		First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetOrderQR returns a PNG QR code of the order reference. The driver scans
// it at handoff to confirm the right delivery.
func GetOrderQR(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	png, err := qrcode.Encode(order.Reference, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// CancelOrder cancels an order (customer can cancel pending or accepted)
func CancelOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, statemachine.ActorCustomer); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Cannot cancel order",
			"reason":        err.Error(),
			"current_state": order.Status,
		})
		return
	}

	prevStatus := order.Status
	config.DB.Model(&order).Update("status", models.StatusCancelled)

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   models.StatusCancelled,
		ChangedBy:  customerID,
		Note:       "Order cancelled by customer",
	}
	config.DB.Create(&history)
	recordCancelled()

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": order.ID})
}

// GetLoyaltyPoints returns the customer's loyalty balance
func GetLoyaltyPoints(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var lp models.LoyaltyPoint
	if err := config.DB.Where("user_id = ?", userID).First(&lp).Error; err != nil {
		// No deliveries yet — zero balance, not an error
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "points": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": lp.UserID, "points": lp.Points})
}
