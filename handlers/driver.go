package handlers

import (
	"errors"
	"net/http"

	"gas-delivery-api/config"
	"gas-delivery-api/middleware"
	"gas-delivery-api/models"
	"gas-delivery-api/statemachine"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DriverCommissionRate is the share of the order total paid to the driver.
const DriverCommissionRate = 0.15

// GetAvailableOrders shows pending orders with no driver assigned, newest first
func GetAvailableOrders(c *gin.Context) {
	var orders []models.Order
	config.DB.Preload("Customer").
		Where("status = ? AND driver_id IS NULL", models.StatusPending).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{
		"count":  len(orders),
		"orders": orders,
	})
}

// GetMyDeliveries returns all orders ever assigned to the logged-in driver
func GetMyDeliveries(c *gin.Context) {
	driverID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Customer").
		Where("driver_id = ?", driverID).
		Order("updated_at desc").
		Find(&orders)

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"count":         len(orders),
		"order_summary": summary,
		"orders":        orders,
	})
}

// GetActiveDelivery returns the single order the driver is currently working
func GetActiveDelivery(c *gin.Context) {
	driverID := middleware.GetUserID(c)
	var order models.Order
	err := config.DB.Preload("Customer").
		Where("driver_id = ? AND status IN ?", driverID, models.ActiveStatuses).
		First(&order).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active delivery"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AcceptOrder claims a pending order for the driver. Status and driver are
// set in a single conditional UPDATE, so when two drivers race for the same
// order exactly one write matches and the loser gets a conflict.
func AcceptOrder(c *gin.Context) {
	driverID := middleware.GetUserID(c)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	// A driver carries at most one active delivery at a time. That guard
	// lives inside the same conditional UPDATE as the claim itself, so two
	// accepts racing for different orders cannot both go through.
	res := config.DB.Model(&models.Order{}).
		Where("id = ? AND status = ? AND driver_id IS NULL", order.ID, models.StatusPending).
		Where("NOT EXISTS (SELECT 1 FROM orders WHERE driver_id = ? AND status IN ?)", driverID, models.ActiveStatuses).
		Updates(map[string]interface{}{
			"status":    models.StatusAccepted,
			"driver_id": driverID,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept order"})
		return
	}
	if res.RowsAffected == 0 {
		var active models.Order
		if err := config.DB.
			Where("driver_id = ? AND status IN ?", driverID, models.ActiveStatuses).
			First(&active).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":           "You already have an active delivery. Complete it first.",
				"active_order_id": active.ID,
			})
			return
		}
		// First writer won; this driver lost the race or the order moved on
		c.JSON(http.StatusConflict, gin.H{"error": "Order is no longer available"})
		return
	}

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: models.StatusPending,
		ToStatus:   models.StatusAccepted,
		ChangedBy:  driverID,
		Note:       "Driver accepted the order",
	}
	config.DB.Create(&history)
	recordAccepted()

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order accepted",
		"order_id": order.ID,
		"status":   models.StatusAccepted,
	})
}

type UpdateDeliveryStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// UpdateDeliveryStatus moves the driver's delivery strictly forward:
// accepted → picked_up → on_the_way → delivered. Delivery also writes the
// driver's earning and the customer's loyalty points.
func UpdateDeliveryStatus(c *gin.Context) {
	driverID := middleware.GetUserID(c)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if order.DriverID == nil || *order.DriverID != driverID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned driver for this order"})
		return
	}

	var req UpdateDeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, statemachine.ActorDriver); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"requested":         req.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	prevStatus := order.Status
	config.DB.Model(&order).Update("status", req.Status)

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   req.Status,
		ChangedBy:  driverID,
		Note:       req.Note,
	}
	config.DB.Create(&history)

	if req.Status == models.StatusDelivered {
		settleDelivery(&order, driverID)
		recordDelivered()
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Delivery status updated",
		"order_id":        order.ID,
		"previous_status": string(prevStatus),
		"current_status":  string(req.Status),
	})
}

// settleDelivery records the driver's cut and the customer's loyalty points
// for a delivered order.
func settleDelivery(order *models.Order, driverID uint) {
	earning := models.DriverEarning{
		DriverID: driverID,
		OrderID:  order.ID,
		Amount:   order.TotalAmount * DriverCommissionRate,
		Period:   models.PeriodWeek,
	}
	config.DB.Create(&earning)

	// 1 loyalty point per 100 KES spent
	points := int(order.TotalAmount / 100)
	var lp models.LoyaltyPoint
	err := config.DB.Where("user_id = ?", order.CustomerID).First(&lp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		config.DB.Create(&models.LoyaltyPoint{UserID: order.CustomerID, Points: points})
		return
	}
	if err == nil {
		config.DB.Model(&lp).Update("points", lp.Points+points)
	}
}
