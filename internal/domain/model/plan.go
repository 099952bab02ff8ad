package model

import "time"

// Периоды оплаты тарифа.
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
)

// Вкладки страницы тарифов (производные от IsActive).
const (
	PlanTabActive   = "active"
	PlanTabInactive = "inactive"
)

// Plan — тарифный план подписки.
// Хранится в таблице plans, отдаётся через /api/admin/plans.
type Plan struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	// PriceINR — цена в пайсах
	PriceINR        int64     `json:"price_inr"`
	BillingInterval string    `json:"billing_interval"`
	Features        []string  `json:"features"`
	MaxStores       int       `json:"max_stores"`
	IsActive        bool      `json:"is_active"`
	SortOrder       int       `json:"sort_order"`
	SubscriberCount int       `json:"subscriber_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (p Plan) GetID() string { return p.ID }

func (p Plan) WithID(id string) Plan {
	p.ID = id
	return p
}

func (p Plan) Touched(at time.Time) Plan {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = at
	}
	p.UpdatedAt = at
	return p
}

func (p Plan) Normalized() Plan {
	p.Name = trimmed(p.Name)
	p.Slug = trimmed(p.Slug)
	p.Description = trimmed(p.Description)
	p.Features = nonNilStrings(p.Features)
	if p.BillingInterval == "" {
		p.BillingInterval = BillingMonthly
	}
	p.CreatedAt = utc(p.CreatedAt)
	p.UpdatedAt = utc(p.UpdatedAt)
	return p
}

// Bucket — вкладка страницы тарифов, к которой относится план.
func (p Plan) Bucket() string {
	if p.IsActive {
		return PlanTabActive
	}
	return PlanTabInactive
}
