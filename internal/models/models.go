package models

import (
	"time"
)

// Process states shared by Sales and Coupon rows.
const (
	ProcessPending   = 0
	ProcessConfirmed = 1

	CouponUnused = 0
	CouponUsed   = 1
)

// Device codes of the originating order channel.
const (
	DeviceKiosk = 1
	DevicePOS   = 2
	DeviceTable = 3
)

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null"                 json:"name"`
}

type Menu struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string  `gorm:"not null"                 json:"name"`
	CategoryID uint    `gorm:"index;not null"           json:"category_id"`
	Price      float64 `gorm:"not null"                 json:"price"`
	Cost       float64 `gorm:"not null"                 json:"cost"`
	Stock      int     `gorm:"not null"                 json:"stock"`
}

// Sales is one order line; all lines of a batch share OrderNum.
type Sales struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNum   uint      `gorm:"index;not null"           json:"order_num"`
	MenuID     uint      `gorm:"not null"                 json:"menu_id"`
	CategoryID uint      `gorm:"not null"                 json:"category_id"`
	Price      float64   `gorm:"not null"                 json:"price"`
	Quantity   int       `gorm:"not null"                 json:"quantity"`
	Device     int       `gorm:"not null"                 json:"device"`
	DeviceNum  int       `gorm:"not null"                 json:"device_num"`
	Date       time.Time `gorm:"index;not null"           json:"date"`
	Process    int       `gorm:"index;default:0"          json:"process"`
}

// OrderNum exists only for its auto-incremented key, which is the
// shared per-batch order number.
type OrderNum struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type Device struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null"   json:"name"`
}

type Coupon struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code    string `gorm:"unique;not null"          json:"code"`
	Process int    `gorm:"default:0"                json:"process"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}
