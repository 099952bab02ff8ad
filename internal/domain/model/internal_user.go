package model

import "time"

// Роли сотрудников back office.
const (
	InternalRoleSuperAdmin = "super_admin"
	InternalRoleAdmin      = "admin"
	InternalRoleSupport    = "support"
	InternalRoleAnalyst    = "analyst"
	InternalRoleViewer     = "viewer"
)

// Статусы сотрудника.
const (
	InternalStatusActive   = "active"
	InternalStatusInactive = "inactive"
)

// InternalRoles — допустимые роли в порядке убывания привилегий.
var InternalRoles = []string{
	InternalRoleSuperAdmin,
	InternalRoleAdmin,
	InternalRoleSupport,
	InternalRoleAnalyst,
	InternalRoleViewer,
}

// InternalUser — сотрудник с доступом к back office.
// Хранится в таблице internal_users, отдаётся через /api/admin/internal-users.
// Временные метки сериализуются в camelCase ISO-строки (createdAt/updatedAt).
type InternalUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	Department string `json:"department"`
	// Phone — опциональный телефон (nil — не указан)
	Phone *string `json:"phone"`
	// Status — active, inactive
	Status       string     `json:"status"`
	LastActiveAt *time.Time `json:"lastActiveAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (u InternalUser) GetID() string { return u.ID }

func (u InternalUser) WithID(id string) InternalUser {
	u.ID = id
	return u
}

func (u InternalUser) Touched(at time.Time) InternalUser {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = at
	}
	u.UpdatedAt = at
	return u
}

func (u InternalUser) Normalized() InternalUser {
	u.Name = trimmed(u.Name)
	u.Email = trimmed(u.Email)
	u.Username = trimmed(u.Username)
	u.Department = trimmed(u.Department)
	if u.Phone != nil {
		p := trimmed(*u.Phone)
		if p == "" {
			u.Phone = nil
		} else {
			u.Phone = &p
		}
	}
	if u.Role == "" {
		u.Role = InternalRoleViewer
	}
	if u.Status == "" {
		u.Status = InternalStatusActive
	}
	u.LastActiveAt = utcPtr(u.LastActiveAt)
	u.CreatedAt = utc(u.CreatedAt)
	u.UpdatedAt = utc(u.UpdatedAt)
	return u
}

// IsAdmin — роль с административными привилегиями.
func (u InternalUser) IsAdmin() bool {
	return u.Role == InternalRoleSuperAdmin || u.Role == InternalRoleAdmin
}
