package models

import "time"

// OrderStatus represents all possible states of a gas delivery order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusOnTheWay  OrderStatus = "on_the_way"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// ActiveStatuses are the states in which a driver is working a delivery.
// At most one order per driver may be in any of them.
var ActiveStatuses = []OrderStatus{StatusAccepted, StatusPickedUp, StatusOnTheWay}

type Order struct {
	ID              uint                 `json:"id" gorm:"primaryKey"`
	Reference       string               `json:"reference" gorm:"uniqueIndex;not null"` // client-facing tracking code
	CustomerID      uint                 `json:"customer_id" gorm:"not null"`
	Customer        User                 `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	DriverID        *uint                `json:"driver_id"` // null until a driver accepts
	Driver          *User                `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Status          OrderStatus          `json:"status" gorm:"not null;default:'pending'"`
	CylinderSize    int                  `json:"cylinder_size" gorm:"not null"` // kg
	Quantity        int                  `json:"quantity" gorm:"not null"`
	TotalAmount     float64              `json:"total_amount"` // KES, computed server-side
	DeliveryAddress string               `json:"delivery_address" gorm:"not null"`
	Notes           string               `json:"notes"`
	StatusHistory   []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// OrderStatusHistory tracks every status change — audit trail
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
