package model

import "time"

// Статусы поставщика.
const (
	SupplierStatusActive    = "active"
	SupplierStatusSuspended = "suspended"
)

// Supplier — поставщик товаров.
// Хранится в таблице suppliers, отдаётся через /api/admin/suppliers.
type Supplier struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Company       string    `json:"company"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Website       string    `json:"website"`
	Category      string    `json:"category"`
	Country       string    `json:"country"`
	Verified      bool      `json:"verified"`
	Rating        float64   `json:"rating"`
	ProductsCount int       `json:"products_count"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s Supplier) GetID() string { return s.ID }

func (s Supplier) WithID(id string) Supplier {
	s.ID = id
	return s
}

func (s Supplier) Touched(at time.Time) Supplier {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = at
	}
	s.UpdatedAt = at
	return s
}

func (s Supplier) Normalized() Supplier {
	s.Name = trimmed(s.Name)
	s.Company = trimmed(s.Company)
	s.Email = trimmed(s.Email)
	s.Phone = trimmed(s.Phone)
	s.Website = trimmed(s.Website)
	s.Category = trimmed(s.Category)
	s.Country = trimmed(s.Country)
	if s.Status == "" {
		s.Status = SupplierStatusActive
	}
	s.CreatedAt = utc(s.CreatedAt)
	s.UpdatedAt = utc(s.UpdatedAt)
	return s
}
