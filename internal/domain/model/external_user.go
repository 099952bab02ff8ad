package model

import "time"

// Статусы внешнего пользователя.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusPending   = "pending"
)

// Тарифы внешнего пользователя.
const (
	UserPlanFree       = "free"
	UserPlanStarter    = "starter"
	UserPlanPro        = "pro"
	UserPlanEnterprise = "enterprise"
)

// ExternalUser — клиент платформы (пользователь витрины).
type ExternalUser struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Username string `json:"username" yaml:"username"`
	Company  string `json:"company" yaml:"company"`
	// Plan — free, starter, pro, enterprise
	Plan string `json:"plan" yaml:"plan"`
	// Status — active, suspended, pending
	Status        string `json:"status" yaml:"status"`
	EmailVerified bool   `json:"email_verified" yaml:"email_verified"`
	OrdersCount   int    `json:"orders_count" yaml:"orders_count"`
	// TotalSpentINR — сумма оплат в пайсах
	TotalSpentINR int64      `json:"total_spent_inr" yaml:"total_spent_inr"`
	LastLoginAt   *time.Time `json:"last_login_at" yaml:"last_login_at"`
	CreatedAt     time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" yaml:"updated_at"`
}

func (u ExternalUser) GetID() string { return u.ID }

func (u ExternalUser) WithID(id string) ExternalUser {
	u.ID = id
	return u
}

func (u ExternalUser) Touched(at time.Time) ExternalUser {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = at
	}
	u.UpdatedAt = at
	return u
}

func (u ExternalUser) Normalized() ExternalUser {
	u.Name = trimmed(u.Name)
	u.Email = trimmed(u.Email)
	u.Username = trimmed(u.Username)
	u.Company = trimmed(u.Company)
	if u.Plan == "" {
		u.Plan = UserPlanFree
	}
	if u.Status == "" {
		u.Status = UserStatusPending
	}
	u.LastLoginAt = utcPtr(u.LastLoginAt)
	u.CreatedAt = utc(u.CreatedAt)
	u.UpdatedAt = utc(u.UpdatedAt)
	return u
}
