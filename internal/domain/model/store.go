package model

import "time"

// Статусы магазина-конкурента.
const (
	StoreStatusActive     = "active"
	StoreStatusMonitoring = "monitoring"
	StoreStatusArchived   = "archived"
)

// CompetitorStore — отслеживаемый магазин-конкурент.
// Источник — встроенные sample-данные (без реального endpoint).
type CompetitorStore struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	URL      string `json:"url" yaml:"url"`
	Category string `json:"category" yaml:"category"`
	Platform string `json:"platform" yaml:"platform"`
	Country  string `json:"country" yaml:"country"`
	// MonthlyTraffic — визиты в месяц
	MonthlyTraffic int64 `json:"monthly_traffic" yaml:"monthly_traffic"`
	// MonthlyRevenue — оценка выручки в месяц (nil — неизвестно)
	MonthlyRevenue *float64 `json:"monthly_revenue" yaml:"monthly_revenue"`
	Rating         float64  `json:"rating" yaml:"rating"`
	ProductCount   int      `json:"product_count" yaml:"product_count"`
	Verified       bool     `json:"verified" yaml:"verified"`
	// Status — active, monitoring, archived
	Status    string    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

func (s CompetitorStore) GetID() string { return s.ID }

func (s CompetitorStore) WithID(id string) CompetitorStore {
	s.ID = id
	return s
}

func (s CompetitorStore) Touched(at time.Time) CompetitorStore {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = at
	}
	s.UpdatedAt = at
	return s
}

func (s CompetitorStore) Normalized() CompetitorStore {
	s.Name = trimmed(s.Name)
	s.URL = trimmed(s.URL)
	s.Category = trimmed(s.Category)
	s.Platform = trimmed(s.Platform)
	s.Country = trimmed(s.Country)
	if s.Status == "" {
		s.Status = StoreStatusMonitoring
	}
	s.CreatedAt = utc(s.CreatedAt)
	s.UpdatedAt = utc(s.UpdatedAt)
	return s
}
