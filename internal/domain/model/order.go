package model

import "time"

// Статусы заказа.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusFailed    = "failed"
	OrderStatusRefunded  = "refunded"
	OrderStatusCancelled = "cancelled"
)

// Способы оплаты.
const (
	PaymentCard       = "card"
	PaymentUPI        = "upi"
	PaymentNetbanking = "netbanking"
	PaymentWallet     = "wallet"
)

// UserSnapshot — денормализованный снимок пользователя внутри заказа.
type UserSnapshot struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// PlanSnapshot — денормализованный снимок тарифа внутри заказа.
type PlanSnapshot struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Slug     string `json:"slug" yaml:"slug"`
	PriceINR int64  `json:"price_inr" yaml:"price_inr"`
}

// Order — заказ подписки.
// Снимки User и Plan подставляются при чтении и не обновляются каскадно
// при изменении самого заказа.
type Order struct {
	ID     string       `json:"id" yaml:"id"`
	UserID string       `json:"user_id" yaml:"user_id"`
	PlanID string       `json:"plan_id" yaml:"plan_id"`
	User   UserSnapshot `json:"user" yaml:"user"`
	Plan   PlanSnapshot `json:"plan" yaml:"plan"`
	// AmountINR — сумма в пайсах
	AmountINR     int64     `json:"amount_inr" yaml:"amount_inr"`
	Currency      string    `json:"currency" yaml:"currency"`
	Status        string    `json:"status" yaml:"status"`
	PaymentMethod string    `json:"payment_method" yaml:"payment_method"`
	GatewayRef    string    `json:"gateway_ref" yaml:"gateway_ref"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

func (o Order) GetID() string { return o.ID }

func (o Order) WithID(id string) Order {
	o.ID = id
	return o
}

func (o Order) Touched(at time.Time) Order {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = at
	}
	o.UpdatedAt = at
	return o
}

func (o Order) Normalized() Order {
	if o.Currency == "" {
		o.Currency = "INR"
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	o.GatewayRef = trimmed(o.GatewayRef)
	o.CreatedAt = utc(o.CreatedAt)
	o.UpdatedAt = utc(o.UpdatedAt)
	return o
}

// Snapshot возвращает снимок пользователя для встраивания в заказ.
func (u ExternalUser) Snapshot() UserSnapshot {
	return UserSnapshot{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Snapshot возвращает снимок тарифа для встраивания в заказ.
func (p Plan) Snapshot() PlanSnapshot {
	return PlanSnapshot{ID: p.ID, Name: p.Name, Slug: p.Slug, PriceINR: p.PriceINR}
}
