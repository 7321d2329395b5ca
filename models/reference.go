package models

import "time"

// CylinderPrices maps cylinder size (kg) to unit price in KES.
var CylinderPrices = map[int]float64{
	6:  1500,
	13: 2800,
	25: 5000,
	50: 9500,
}

// SafetyTip is read-only reference content shown on the customer home screen
type SafetyTip struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Body      string    `json:"body" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// EarningPeriod groups driver earnings for the earnings screen
type EarningPeriod string

const (
	PeriodWeek  EarningPeriod = "week"
	PeriodMonth EarningPeriod = "month"
)

// DriverEarning is written once per delivered order; no client write path
type DriverEarning struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	DriverID  uint          `json:"driver_id" gorm:"not null;index"`
	OrderID   uint          `json:"order_id" gorm:"not null"`
	Amount    float64       `json:"amount" gorm:"not null"` // KES
	Period    EarningPeriod `json:"period" gorm:"not null;default:'week'"`
	CreatedAt time.Time     `json:"created_at"`
}

// LoyaltyPoint holds one row per customer, incremented on each delivery
type LoyaltyPoint struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Points    int       `json:"points" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}
