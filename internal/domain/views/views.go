// Пакет views — таблицы конвейера списков по доменам: вкладки,
// быстрые фильтры, поля поиска, фильтры колонок и компараторы.
//
// Добавление сортируемой колонки или быстрого фильтра — правка таблицы.
package views

import (
	"strconv"
	"time"

	"github.com/bigkaa/backoffice/internal/domain/model"
	"github.com/bigkaa/backoffice/internal/listing"
)

// Имена быстрых фильтров.
const (
	QuickHighTraffic    = "high_traffic"
	QuickTopRated       = "top_rated"
	QuickVerified       = "verified"
	QuickHighRevenue    = "high_revenue"
	QuickSuspended      = "suspended"
	QuickUnverified     = "unverified"
	QuickHighValue      = "high_value"
	QuickInactive       = "inactive"
	QuickAdmins         = "admins"
	QuickNeedsAttention = "needs_attention"
	QuickRefunded       = "refunded"
	QuickPopular        = "popular"
	QuickFree           = "free"
)

// Пороги быстрых фильтров.
const (
	HighTrafficThreshold   = 100_000
	TopRatedThreshold      = 4.5
	HighRevenueThreshold   = 1_000_000.0
	HighValueUserPaise     = 1_000_000 // ₹10 000
	HighValueOrderPaise    = 500_000   // ₹5 000
	PopularPlanSubscribers = 100
	// PendingAttentionAge — возраст ожидающего заказа, после которого
	// он требует внимания (строго больше)
	PendingAttentionAge = 24 * time.Hour
	// InactiveAfter — срок без входа, после которого пользователь неактивен
	InactiveAfter = 30 * 24 * time.Hour
)

// Stores — конвейер конкурентных магазинов.
func Stores() listing.Spec[model.CompetitorStore] {
	type T = model.CompetitorStore
	return listing.Spec[T]{
		Tab:       func(s T) string { return s.Status },
		Timestamp: func(s T) time.Time { return s.CreatedAt },
		QuickFilters: map[string]listing.Predicate[T]{
			QuickHighTraffic: func(s T, _ time.Time) bool { return s.MonthlyTraffic >= HighTrafficThreshold },
			QuickTopRated:    func(s T, _ time.Time) bool { return s.Rating >= TopRatedThreshold },
			QuickVerified:    func(s T, _ time.Time) bool { return s.Verified },
			QuickHighRevenue: func(s T, _ time.Time) bool {
				return s.MonthlyRevenue != nil && *s.MonthlyRevenue >= HighRevenueThreshold
			},
		},
		SearchFields: []listing.Accessor[T]{
			func(s T) string { return s.Name },
			func(s T) string { return s.URL },
			func(s T) string { return s.Category },
			func(s T) string { return s.Platform },
		},
		Columns: map[string]listing.Accessor[T]{
			"category": func(s T) string { return s.Category },
			"platform": func(s T) string { return s.Platform },
			"country":  func(s T) string { return s.Country },
			"status":   func(s T) string { return s.Status },
		},
		Comparators: map[string]listing.Comparator[T]{
			"name":            func(a, b T) int { return listing.CompareFold(a.Name, b.Name) },
			"category":        func(a, b T) int { return listing.CompareFold(a.Category, b.Category) },
			"platform":        func(a, b T) int { return listing.CompareFold(a.Platform, b.Platform) },
			"monthly_traffic": func(a, b T) int { return listing.CompareInt(a.MonthlyTraffic, b.MonthlyTraffic) },
			"monthly_revenue": func(a, b T) int { return listing.CompareOptional(a.MonthlyRevenue, b.MonthlyRevenue) },
			"rating":          func(a, b T) int { return listing.CompareFloat(a.Rating, b.Rating) },
			"product_count":   func(a, b T) int { return listing.CompareInt(a.ProductCount, b.ProductCount) },
			"created_at":      func(a, b T) int { return listing.CompareTime(a.CreatedAt, b.CreatedAt) },
		},
	}
}

// ExternalUsers — конвейер внешних пользователей.
func ExternalUsers() listing.Spec[model.ExternalUser] {
	type T = model.ExternalUser
	return listing.Spec[T]{
		Tab:       func(u T) string { return u.Status },
		Timestamp: func(u T) time.Time { return u.CreatedAt },
		QuickFilters: map[string]listing.Predicate[T]{
			QuickSuspended:  func(u T, _ time.Time) bool { return u.Status == model.UserStatusSuspended },
			QuickUnverified: func(u T, _ time.Time) bool { return !u.EmailVerified },
			QuickHighValue:  func(u T, _ time.Time) bool { return u.TotalSpentINR >= HighValueUserPaise },
			QuickInactive: func(u T, now time.Time) bool {
				return u.LastLoginAt == nil || now.Sub(*u.LastLoginAt) > InactiveAfter
			},
		},
		SearchFields: []listing.Accessor[T]{
			func(u T) string { return u.Name },
			func(u T) string { return u.Email },
			func(u T) string { return u.Username },
			func(u T) string { return u.Company },
		},
		Columns: map[string]listing.Accessor[T]{
			"plan":           func(u T) string { return u.Plan },
			"status":         func(u T) string { return u.Status },
			"email_verified": func(u T) string { return strconv.FormatBool(u.EmailVerified) },
		},
		Comparators: map[string]listing.Comparator[T]{
			"name":            func(a, b T) int { return listing.CompareFold(a.Name, b.Name) },
			"email":           func(a, b T) int { return listing.CompareFold(a.Email, b.Email) },
			"plan":            func(a, b T) int { return listing.CompareFold(a.Plan, b.Plan) },
			"orders_count":    func(a, b T) int { return listing.CompareInt(a.OrdersCount, b.OrdersCount) },
			"total_spent_inr": func(a, b T) int { return listing.CompareInt(a.TotalSpentINR, b.TotalSpentINR) },
			"last_login_at":   func(a, b T) int { return listing.CompareOptionalTime(a.LastLoginAt, b.LastLoginAt) },
			"created_at":      func(a, b T) int { return listing.CompareTime(a.CreatedAt, b.CreatedAt) },
		},
	}
}

// InternalUsers — конвейер сотрудников. Вкладки — роли.
func InternalUsers() listing.Spec[model.InternalUser] {
	type T = model.InternalUser
	return listing.Spec[T]{
		Tab:       func(u T) string { return u.Role },
		Timestamp: func(u T) time.Time { return u.CreatedAt },
		QuickFilters: map[string]listing.Predicate[T]{
			QuickAdmins:   func(u T, _ time.Time) bool { return u.IsAdmin() },
			QuickInactive: func(u T, _ time.Time) bool { return u.Status == model.InternalStatusInactive },
		},
		SearchFields: []listing.Accessor[T]{
			func(u T) string { return u.Name },
			func(u T) string { return u.Email },
			func(u T) string { return u.Username },
			func(u T) string { return u.Department },
		},
		Columns: map[string]listing.Accessor[T]{
			"department": func(u T) string { return u.Department },
			"status":     func(u T) string { return u.Status },
		},
		Comparators: map[string]listing.Comparator[T]{
			"name":           func(a, b T) int { return listing.CompareFold(a.Name, b.Name) },
			"email":          func(a, b T) int { return listing.CompareFold(a.Email, b.Email) },
			"role":           func(a, b T) int { return listing.CompareFold(a.Role, b.Role) },
			"department":     func(a, b T) int { return listing.CompareFold(a.Department, b.Department) },
			"last_active_at": func(a, b T) int { return listing.CompareOptionalTime(a.LastActiveAt, b.LastActiveAt) },
			"created_at":     func(a, b T) int { return listing.CompareTime(a.CreatedAt, b.CreatedAt) },
		},
	}
}

// NeedsAttention — заказ требует внимания: платёж не прошёл либо заказ
// ожидает оплаты строго дольше PendingAttentionAge.
func NeedsAttention(o model.Order, now time.Time) bool {
	if o.Status == model.OrderStatusFailed {
		return true
	}
	if o.Status != model.OrderStatusPending {
		return false
	}
	return now.Sub(o.CreatedAt) > PendingAttentionAge
}

// Orders — конвейер заказов. Без явной сортировки — сначала новые.
func Orders() listing.Spec[model.Order] {
	type T = model.Order
	return listing.Spec[T]{
		Tab:       func(o T) string { return o.Status },
		Timestamp: func(o T) time.Time { return o.CreatedAt },
		QuickFilters: map[string]listing.Predicate[T]{
			QuickNeedsAttention: NeedsAttention,
			QuickHighValue:      func(o T, _ time.Time) bool { return o.AmountINR >= HighValueOrderPaise },
			QuickRefunded:       func(o T, _ time.Time) bool { return o.Status == model.OrderStatusRefunded },
		},
		SearchFields: []listing.Accessor[T]{
			func(o T) string { return o.ID },
			func(o T) string { return o.User.Email },
			func(o T) string { return o.User.Name },
			func(o T) string { return o.Plan.Name },
			func(o T) string { return o.GatewayRef },
		},
		Columns: map[string]listing.Accessor[T]{
			"status":         func(o T) string { return o.Status },
			"payment_method": func(o T) string { return o.PaymentMethod },
			"plan":           func(o T) string { return o.Plan.Slug },
		},
		Comparators: map[string]listing.Comparator[T]{
			"id":         func(a, b T) int { return listing.CompareFold(a.ID, b.ID) },
			"customer":   func(a, b T) int { return listing.CompareFold(a.User.Name, b.User.Name) },
			"plan":       func(a, b T) int { return listing.CompareFold(a.Plan.Name, b.Plan.Name) },
			"amount_inr": func(a, b T) int { return listing.CompareInt(a.AmountINR, b.AmountINR) },
			"status":     func(a, b T) int { return listing.CompareFold(a.Status, b.Status) },
			"created_at": func(a, b T) int { return listing.CompareTime(a.CreatedAt, b.CreatedAt) },
		},
		DefaultSort: func(a, b T) int { return listing.CompareTime(b.CreatedAt, a.CreatedAt) },
	}
}

// Plans — конвейер тарифов. Вкладки — активные и неактивные.
func Plans() listing.Spec[model.Plan] {
	type T = model.Plan
	return listing.Spec[T]{
		Tab:       func(p T) string { return p.Bucket() },
		Timestamp: func(p T) time.Time { return p.CreatedAt },
		QuickFilters: map[string]listing.Predicate[T]{
			QuickPopular: func(p T, _ time.Time) bool { return p.SubscriberCount >= PopularPlanSubscribers },
			QuickFree:    func(p T, _ time.Time) bool { return p.PriceINR == 0 },
		},
		SearchFields: []listing.Accessor[T]{
			func(p T) string { return p.Name },
			func(p T) string { return p.Slug },
			func(p T) string { return p.Description },
		},
		Columns: map[string]listing.Accessor[T]{
			"billing_interval": func(p T) string { return p.BillingInterval },
		},
		Comparators: map[string]listing.Comparator[T]{
			"name":             func(a, b T) int { return listing.CompareFold(a.Name, b.Name) },
			"price_inr":        func(a, b T) int { return listing.CompareInt(a.PriceINR, b.PriceINR) },
			"max_stores":       func(a, b T) int { return listing.CompareInt(a.MaxStores, b.MaxStores) },
			"sort_order":       func(a, b T) int { return listing.CompareInt(a.SortOrder, b.SortOrder) },
			"subscriber_count": func(a, b T) int { return listing.CompareInt(a.SubscriberCount, b.SubscriberCount) },
			"created_at":       func(a, b T) int { return listing.CompareTime(a.CreatedAt, b.CreatedAt) },
		},
	}
}

// Suppliers — конвейер поставщиков. Вкладки — категории.
func Suppliers() listing.Spec[model.Supplier] {
	type T = model.Supplier
	return listing.Spec[T]{
		Tab:       func(s T) string { return s.Category },
		Timestamp: func(s T) time.Time { return s.CreatedAt },
		QuickFilters: map[string]listing.Predicate[T]{
			QuickVerified:  func(s T, _ time.Time) bool { return s.Verified },
			QuickTopRated:  func(s T, _ time.Time) bool { return s.Rating >= TopRatedThreshold },
			QuickSuspended: func(s T, _ time.Time) bool { return s.Status == model.SupplierStatusSuspended },
		},
		SearchFields: []listing.Accessor[T]{
			func(s T) string { return s.Name },
			func(s T) string { return s.Company },
			func(s T) string { return s.Email },
			func(s T) string { return s.Country },
		},
		Columns: map[string]listing.Accessor[T]{
			"country": func(s T) string { return s.Country },
			"status":  func(s T) string { return s.Status },
		},
		Comparators: map[string]listing.Comparator[T]{
			"name":           func(a, b T) int { return listing.CompareFold(a.Name, b.Name) },
			"company":        func(a, b T) int { return listing.CompareFold(a.Company, b.Company) },
			"country":        func(a, b T) int { return listing.CompareFold(a.Country, b.Country) },
			"rating":         func(a, b T) int { return listing.CompareFloat(a.Rating, b.Rating) },
			"products_count": func(a, b T) int { return listing.CompareInt(a.ProductsCount, b.ProductsCount) },
			"created_at":     func(a, b T) int { return listing.CompareTime(a.CreatedAt, b.CreatedAt) },
		},
	}
}
