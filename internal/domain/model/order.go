package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// completed / cancelled は終端。以後の遷移は認めない。
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// 注文。作成後はstatus以外を変更しない。
// TotalPriceは作成時点の明細合計（Σ 単価×数量）と一致する。
type Order struct {
	ID              int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64       `gorm:"not null;index" json:"user_id"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice      int64       `gorm:"not null" json:"total_price"`
	DeliveryAddress string      `gorm:"type:text;not null" json:"delivery_address"`
	PhoneNumber     string      `gorm:"type:varchar(30);not null" json:"phone_number"`
	PaymentCode     string      `gorm:"type:varchar(50)" json:"payment_code"`
	CreatedAt       time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
