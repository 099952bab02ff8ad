package handlers

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bigkaa/backoffice/internal/domain/model"
	"github.com/bigkaa/backoffice/internal/domain/rbac"
	"github.com/bigkaa/backoffice/internal/domain/views"
	"github.com/bigkaa/backoffice/internal/export"
	"github.com/bigkaa/backoffice/internal/validation"
)

// valuePrefix — префикс ключей перевода перечислимых значений.
const valuePrefix = "ui.value."

// Navigation — пункты навигации админки в порядке меню.
var Navigation = []NavItem{
	{Name: "stores", Title: "ui.domain.stores"},
	{Name: "users", Title: "ui.domain.users"},
	{Name: "internal-users", Title: "ui.domain.internal_users"},
	{Name: "orders", Title: "ui.domain.orders"},
	{Name: "plans", Title: "ui.domain.plans"},
	{Name: "suppliers", Title: "ui.domain.suppliers"},
}

// StoresDomain — страница конкурентных магазинов.
func StoresDomain() Domain[model.CompetitorStore] {
	type T = model.CompetitorStore
	return Domain[T]{
		Name:        "stores",
		Title:       "ui.domain.stores",
		Spec:        views.Stores(),
		Tabs:        []string{model.StoreStatusActive, model.StoreStatusMonitoring, model.StoreStatusArchived},
		ValuePrefix: valuePrefix,
		Table: []Column[T]{
			{"ui.field.name", "name", func(s T) string { return s.Name }},
			{"ui.field.category", "category", func(s T) string { return s.Category }},
			{"ui.field.platform", "platform", func(s T) string { return s.Platform }},
			{"ui.field.monthly_traffic", "monthly_traffic", func(s T) string { return strconv.FormatInt(s.MonthlyTraffic, 10) }},
			{"ui.field.monthly_revenue", "monthly_revenue", func(s T) string { return optionalNumber(s.MonthlyRevenue) }},
			{"ui.field.rating", "rating", func(s T) string { return formatRating(s.Rating) }},
			{"ui.field.status", "", func(s T) string { return s.Status }},
		},
		Details: []Column[T]{
			{"ui.field.name", "", func(s T) string { return s.Name }},
			{"ui.field.url", "", func(s T) string { return s.URL }},
			{"ui.field.category", "", func(s T) string { return s.Category }},
			{"ui.field.platform", "", func(s T) string { return s.Platform }},
			{"ui.field.country", "", func(s T) string { return s.Country }},
			{"ui.field.monthly_traffic", "", func(s T) string { return strconv.FormatInt(s.MonthlyTraffic, 10) }},
			{"ui.field.monthly_revenue", "", func(s T) string { return optionalNumber(s.MonthlyRevenue) }},
			{"ui.field.rating", "", func(s T) string { return formatRating(s.Rating) }},
			{"ui.field.product_count", "", func(s T) string { return strconv.Itoa(s.ProductCount) }},
			{"ui.field.verified", "", func(s T) string { return strconv.FormatBool(s.Verified) }},
			{"ui.field.status", "", func(s T) string { return s.Status }},
			{"ui.field.created_at", "", func(s T) string { return formatDate(s.CreatedAt) }},
		},
		Form: []FormField[T]{
			textField[T]("name", true, func(s T) *string { return &s.Name }, func(s *T) *string { return &s.Name }),
			{Name: "url", Label: "ui.field.url", Type: "url", Required: true,
				Get: func(s T) string { return s.URL }, Set: func(s *T, v string) error { s.URL = v; return nil }},
			textField[T]("category", true, func(s T) *string { return &s.Category }, func(s *T) *string { return &s.Category }),
			textField[T]("platform", true, func(s T) *string { return &s.Platform }, func(s *T) *string { return &s.Platform }),
			textField[T]("country", true, func(s T) *string { return &s.Country }, func(s *T) *string { return &s.Country }),
			{Name: "monthly_traffic", Label: "ui.field.monthly_traffic", Type: "number",
				Get: func(s T) string { return strconv.FormatInt(s.MonthlyTraffic, 10) },
				Set: func(s *T, v string) error { return parseInt64(v, &s.MonthlyTraffic) }},
			{Name: "monthly_revenue", Label: "ui.field.monthly_revenue", Type: "number",
				Get: func(s T) string { return optionalNumber(s.MonthlyRevenue) },
				Set: func(s *T, v string) error { return parseOptionalFloat(v, &s.MonthlyRevenue) }},
			{Name: "rating", Label: "ui.field.rating", Type: "number",
				Get: func(s T) string { return formatRating(s.Rating) },
				Set: func(s *T, v string) error { return parseFloat(v, &s.Rating) }},
			{Name: "product_count", Label: "ui.field.product_count", Type: "number",
				Get: func(s T) string { return strconv.Itoa(s.ProductCount) },
				Set: func(s *T, v string) error { return parseInt(v, &s.ProductCount) }},
			checkboxField[T]("verified", func(s T) bool { return s.Verified }, func(s *T, b bool) { s.Verified = b }),
			{Name: "status", Label: "ui.field.status", Type: "select",
				Options: []string{model.StoreStatusActive, model.StoreStatusMonitoring, model.StoreStatusArchived},
				Get:     func(s T) string { return s.Status }, Set: func(s *T, v string) error { s.Status = v; return nil }},
		},
		Export: export.StoreColumns,
		Actions: []Action[T]{
			{Name: "verify", Perm: rbac.PermStoresManage, Bulk: true,
				Allowed: func(s T) bool { return !s.Verified },
				Apply:   func(s *T) { s.Verified = true }},
			{Name: "archive", Perm: rbac.PermStoresManage, Confirm: true, Bulk: true,
				Allowed: func(s T) bool { return s.Status != model.StoreStatusArchived },
				Apply:   func(s *T) { s.Status = model.StoreStatusArchived }},
			{Name: "delete", Perm: rbac.PermStoresManage, Confirm: true, Bulk: true, Destructive: true, Delete: true},
		},
		ManagePerm:  rbac.PermStoresManage,
		RecordTitle: func(s T) string { return s.Name },
		Validate:    validation.Store,
	}
}

// ExternalUsersDomain — страница клиентов платформы.
func ExternalUsersDomain() Domain[model.ExternalUser] {
	type T = model.ExternalUser
	return Domain[T]{
		Name:        "users",
		Title:       "ui.domain.users",
		Spec:        views.ExternalUsers(),
		Tabs:        []string{model.UserStatusActive, model.UserStatusPending, model.UserStatusSuspended},
		ValuePrefix: valuePrefix,
		Table: []Column[T]{
			{"ui.field.name", "name", func(u T) string { return u.Name }},
			{"ui.field.email", "email", func(u T) string { return u.Email }},
			{"ui.field.plan", "plan", func(u T) string { return u.Plan }},
			{"ui.field.orders_count", "orders_count", func(u T) string { return strconv.Itoa(u.OrdersCount) }},
			{"ui.field.total_spent", "total_spent_inr", func(u T) string { return formatINR(u.TotalSpentINR) }},
			{"ui.field.last_login_at", "last_login_at", func(u T) string { return formatOptionalDate(u.LastLoginAt) }},
			{"ui.field.status", "", func(u T) string { return u.Status }},
		},
		Details: []Column[T]{
			{"ui.field.name", "", func(u T) string { return u.Name }},
			{"ui.field.email", "", func(u T) string { return u.Email }},
			{"ui.field.username", "", func(u T) string { return u.Username }},
			{"ui.field.company", "", func(u T) string { return u.Company }},
			{"ui.field.plan", "", func(u T) string { return u.Plan }},
			{"ui.field.status", "", func(u T) string { return u.Status }},
			{"ui.field.email_verified", "", func(u T) string { return strconv.FormatBool(u.EmailVerified) }},
			{"ui.field.orders_count", "", func(u T) string { return strconv.Itoa(u.OrdersCount) }},
			{"ui.field.total_spent", "", func(u T) string { return formatINR(u.TotalSpentINR) }},
			{"ui.field.last_login_at", "", func(u T) string { return formatOptionalDate(u.LastLoginAt) }},
			{"ui.field.created_at", "", func(u T) string { return formatDate(u.CreatedAt) }},
		},
		Form: []FormField[T]{
			textField[T]("name", true, func(u T) *string { return &u.Name }, func(u *T) *string { return &u.Name }),
			{Name: "email", Label: "ui.field.email", Type: "email", Required: true,
				Get: func(u T) string { return u.Email }, Set: func(u *T, v string) error { u.Email = v; return nil }},
			textField[T]("username", true, func(u T) *string { return &u.Username }, func(u *T) *string { return &u.Username }),
			textField[T]("company", false, func(u T) *string { return &u.Company }, func(u *T) *string { return &u.Company }),
			{Name: "plan", Label: "ui.field.plan", Type: "select",
				Options: []string{model.UserPlanFree, model.UserPlanStarter, model.UserPlanPro, model.UserPlanEnterprise},
				Get:     func(u T) string { return u.Plan }, Set: func(u *T, v string) error { u.Plan = v; return nil }},
			{Name: "status", Label: "ui.field.status", Type: "select",
				Options: []string{model.UserStatusActive, model.UserStatusPending, model.UserStatusSuspended},
				Get:     func(u T) string { return u.Status }, Set: func(u *T, v string) error { u.Status = v; return nil }},
			checkboxField[T]("email_verified", func(u T) bool { return u.EmailVerified }, func(u *T, b bool) { u.EmailVerified = b }),
		},
		Export: export.ExternalUserColumns,
		Actions: []Action[T]{
			{Name: "suspend", Perm: rbac.PermUsersSuspend, Confirm: true, Bulk: true, Destructive: true,
				Allowed: func(u T) bool { return u.Status != model.UserStatusSuspended },
				Apply:   func(u *T) { u.Status = model.UserStatusSuspended }},
			{Name: "activate", Perm: rbac.PermUsersSuspend, Bulk: true,
				Allowed: func(u T) bool { return u.Status != model.UserStatusActive },
				Apply:   func(u *T) { u.Status = model.UserStatusActive }},
			{Name: "verify_email", Perm: rbac.PermUsersManage, Bulk: true,
				Allowed: func(u T) bool { return !u.EmailVerified },
				Apply:   func(u *T) { u.EmailVerified = true }},
			{Name: "delete", Perm: rbac.PermUsersManage, Confirm: true, Bulk: true, Destructive: true, Delete: true},
		},
		ManagePerm:  rbac.PermUsersManage,
		RecordTitle: func(u T) string { return u.Name },
		Validate:    validation.ExternalUser,
	}
}

// InternalUsersDomain — страница сотрудников. Коллекция перечитывается
// при каждом открытии списка.
func InternalUsersDomain() Domain[model.InternalUser] {
	type T = model.InternalUser
	return Domain[T]{
		Name:        "internal-users",
		Title:       "ui.domain.internal_users",
		Spec:        views.InternalUsers(),
		Tabs:        model.InternalRoles,
		ValuePrefix: valuePrefix,
		Table: []Column[T]{
			{"ui.field.name", "name", func(u T) string { return u.Name }},
			{"ui.field.email", "email", func(u T) string { return u.Email }},
			{"ui.field.role", "role", func(u T) string { return u.Role }},
			{"ui.field.department", "department", func(u T) string { return u.Department }},
			{"ui.field.last_active_at", "last_active_at", func(u T) string { return formatOptionalDate(u.LastActiveAt) }},
			{"ui.field.status", "", func(u T) string { return u.Status }},
		},
		Details: []Column[T]{
			{"ui.field.name", "", func(u T) string { return u.Name }},
			{"ui.field.email", "", func(u T) string { return u.Email }},
			{"ui.field.username", "", func(u T) string { return u.Username }},
			{"ui.field.role", "", func(u T) string { return u.Role }},
			{"ui.field.department", "", func(u T) string { return u.Department }},
			{"ui.field.phone", "", func(u T) string { return derefString(u.Phone) }},
			{"ui.field.status", "", func(u T) string { return u.Status }},
			{"ui.field.last_active_at", "", func(u T) string { return formatOptionalDate(u.LastActiveAt) }},
			{"ui.field.created_at", "", func(u T) string { return formatDate(u.CreatedAt) }},
		},
		Form: []FormField[T]{
			textField[T]("name", true, func(u T) *string { return &u.Name }, func(u *T) *string { return &u.Name }),
			{Name: "email", Label: "ui.field.email", Type: "email", Required: true,
				Get: func(u T) string { return u.Email }, Set: func(u *T, v string) error { u.Email = v; return nil }},
			textField[T]("username", true, func(u T) *string { return &u.Username }, func(u *T) *string { return &u.Username }),
			{Name: "role", Label: "ui.field.role", Type: "select", Options: model.InternalRoles,
				Get: func(u T) string { return u.Role }, Set: func(u *T, v string) error { u.Role = v; return nil }},
			textField[T]("department", true, func(u T) *string { return &u.Department }, func(u *T) *string { return &u.Department }),
			{Name: "phone", Label: "ui.field.phone", Type: "tel",
				Get: func(u T) string { return derefString(u.Phone) },
				Set: func(u *T, v string) error {
					if v = strings.TrimSpace(v); v == "" {
						u.Phone = nil
					} else {
						u.Phone = &v
					}
					return nil
				}},
			{Name: "status", Label: "ui.field.status", Type: "select",
				Options: []string{model.InternalStatusActive, model.InternalStatusInactive},
				Get:     func(u T) string { return u.Status }, Set: func(u *T, v string) error { u.Status = v; return nil }},
		},
		Export: export.InternalUserColumns,
		Actions: []Action[T]{
			{Name: "deactivate", Perm: rbac.PermInternalUsersManage, Confirm: true, Bulk: true,
				Allowed: func(u T) bool { return u.Status != model.InternalStatusInactive },
				Apply:   func(u *T) { u.Status = model.InternalStatusInactive }},
			{Name: "activate", Perm: rbac.PermInternalUsersManage, Bulk: true,
				Allowed: func(u T) bool { return u.Status != model.InternalStatusActive },
				Apply:   func(u *T) { u.Status = model.InternalStatusActive }},
			{Name: "delete", Perm: rbac.PermInternalUsersManage, Confirm: true, Bulk: true, Destructive: true, Delete: true},
		},
		ManagePerm:    rbac.PermInternalUsersManage,
		RecordTitle:   func(u T) string { return u.Name },
		Validate:      validation.InternalUser,
		RefreshOnView: true,
	}
}

// OrdersDomain — страница заказов. prepare подставляет в заказы снимки
// пользователя и тарифа (nil — используются сохранённые снимки).
// Заказы не создаются и не редактируются из админки.
func OrdersDomain(prepare func(ctx context.Context, orders []model.Order) []model.Order) Domain[model.Order] {
	type T = model.Order
	return Domain[T]{
		Name:  "orders",
		Title: "ui.domain.orders",
		Spec:  views.Orders(),
		Tabs: []string{model.OrderStatusPending, model.OrderStatusPaid, model.OrderStatusFailed,
			model.OrderStatusRefunded, model.OrderStatusCancelled},
		ValuePrefix: valuePrefix,
		Table: []Column[T]{
			{"ui.field.order_id", "id", func(o T) string { return o.ID }},
			{"ui.field.customer", "customer", func(o T) string { return o.User.Name }},
			{"ui.field.plan", "plan", func(o T) string { return o.Plan.Name }},
			{"ui.field.amount", "amount_inr", func(o T) string { return formatINR(o.AmountINR) }},
			{"ui.field.status", "status", func(o T) string { return o.Status }},
			{"ui.field.payment_method", "", func(o T) string { return o.PaymentMethod }},
			{"ui.field.created_at", "created_at", func(o T) string { return formatDate(o.CreatedAt) }},
		},
		Details: []Column[T]{
			{"ui.field.order_id", "", func(o T) string { return o.ID }},
			{"ui.field.customer", "", func(o T) string { return o.User.Name }},
			{"ui.field.email", "", func(o T) string { return o.User.Email }},
			{"ui.field.plan", "", func(o T) string { return o.Plan.Name }},
			{"ui.field.amount", "", func(o T) string { return formatINR(o.AmountINR) }},
			{"ui.field.status", "", func(o T) string { return o.Status }},
			{"ui.field.payment_method", "", func(o T) string { return o.PaymentMethod }},
			{"ui.field.gateway_ref", "", func(o T) string { return o.GatewayRef }},
			{"ui.field.created_at", "", func(o T) string { return formatDate(o.CreatedAt) }},
		},
		Export: export.OrderColumns,
		Actions: []Action[T]{
			{Name: "refund", Perm: rbac.PermOrdersRefund, Confirm: true, Bulk: true, Destructive: true,
				Allowed: func(o T) bool { return o.Status == model.OrderStatusPaid },
				Apply:   func(o *T) { o.Status = model.OrderStatusRefunded }},
			{Name: "cancel", Perm: rbac.PermOrdersManage, Confirm: true, Bulk: true,
				Allowed: func(o T) bool { return o.Status == model.OrderStatusPending },
				Apply:   func(o *T) { o.Status = model.OrderStatusCancelled }},
			{Name: "mark_paid", Perm: rbac.PermOrdersManage,
				Allowed: func(o T) bool {
					return o.Status == model.OrderStatusPending || o.Status == model.OrderStatusFailed
				},
				Apply: func(o *T) { o.Status = model.OrderStatusPaid }},
		},
		ManagePerm:  rbac.PermOrdersManage,
		RecordTitle: func(o T) string { return o.ID },
		Prepare:     prepare,
	}
}

// PlansDomain — страница тарифов. Цена в форме вводится в рупиях.
func PlansDomain() Domain[model.Plan] {
	type T = model.Plan
	return Domain[T]{
		Name:        "plans",
		Title:       "ui.domain.plans",
		Spec:        views.Plans(),
		Tabs:        []string{model.PlanTabActive, model.PlanTabInactive},
		ValuePrefix: valuePrefix,
		Table: []Column[T]{
			{"ui.field.name", "name", func(p T) string { return p.Name }},
			{"ui.field.price", "price_inr", func(p T) string { return formatINR(p.PriceINR) }},
			{"ui.field.billing_interval", "", func(p T) string { return p.BillingInterval }},
			{"ui.field.max_stores", "max_stores", func(p T) string { return strconv.Itoa(p.MaxStores) }},
			{"ui.field.subscribers", "subscriber_count", func(p T) string { return strconv.Itoa(p.SubscriberCount) }},
			{"ui.field.sort_order", "sort_order", func(p T) string { return strconv.Itoa(p.SortOrder) }},
		},
		Details: []Column[T]{
			{"ui.field.name", "", func(p T) string { return p.Name }},
			{"ui.field.slug", "", func(p T) string { return p.Slug }},
			{"ui.field.description", "", func(p T) string { return p.Description }},
			{"ui.field.price", "", func(p T) string { return formatINR(p.PriceINR) }},
			{"ui.field.billing_interval", "", func(p T) string { return p.BillingInterval }},
			{"ui.field.features", "", func(p T) string { return strings.Join(p.Features, ", ") }},
			{"ui.field.max_stores", "", func(p T) string { return strconv.Itoa(p.MaxStores) }},
			{"ui.field.is_active", "", func(p T) string { return strconv.FormatBool(p.IsActive) }},
			{"ui.field.subscribers", "", func(p T) string { return strconv.Itoa(p.SubscriberCount) }},
			{"ui.field.created_at", "", func(p T) string { return formatDate(p.CreatedAt) }},
		},
		Form: []FormField[T]{
			textField[T]("name", true, func(p T) *string { return &p.Name }, func(p *T) *string { return &p.Name }),
			textField[T]("slug", true, func(p T) *string { return &p.Slug }, func(p *T) *string { return &p.Slug }),
			{Name: "description", Label: "ui.field.description", Type: "textarea",
				Get: func(p T) string { return p.Description }, Set: func(p *T, v string) error { p.Description = v; return nil }},
			{Name: "price_inr", Label: "ui.field.price", Type: "number", Required: true,
				Get: func(p T) string { return export.Amount(p.PriceINR) },
				Set: func(p *T, v string) error { return parseRupees(v, &p.PriceINR) }},
			{Name: "billing_interval", Label: "ui.field.billing_interval", Type: "select",
				Options: []string{model.BillingMonthly, model.BillingYearly},
				Get:     func(p T) string { return p.BillingInterval }, Set: func(p *T, v string) error { p.BillingInterval = v; return nil }},
			{Name: "features", Label: "ui.field.features", Type: "lines",
				Get: func(p T) string { return strings.Join(p.Features, "\n") },
				Set: func(p *T, v string) error { p.Features = splitLines(v); return nil }},
			{Name: "max_stores", Label: "ui.field.max_stores", Type: "number",
				Get: func(p T) string { return strconv.Itoa(p.MaxStores) },
				Set: func(p *T, v string) error { return parseInt(v, &p.MaxStores) }},
			{Name: "sort_order", Label: "ui.field.sort_order", Type: "number",
				Get: func(p T) string { return strconv.Itoa(p.SortOrder) },
				Set: func(p *T, v string) error { return parseInt(v, &p.SortOrder) }},
			checkboxField[T]("is_active", func(p T) bool { return p.IsActive }, func(p *T, b bool) { p.IsActive = b }),
		},
		Export: export.PlanColumns,
		Actions: []Action[T]{
			{Name: "activate", Perm: rbac.PermPlansManage, Bulk: true,
				Allowed: func(p T) bool { return !p.IsActive },
				Apply:   func(p *T) { p.IsActive = true }},
			{Name: "deactivate", Perm: rbac.PermPlansManage, Confirm: true, Bulk: true,
				Allowed: func(p T) bool { return p.IsActive },
				Apply:   func(p *T) { p.IsActive = false }},
			{Name: "delete", Perm: rbac.PermPlansManage, Confirm: true, Bulk: true, Destructive: true, Delete: true},
		},
		ManagePerm:    rbac.PermPlansManage,
		RecordTitle:   func(p T) string { return p.Name },
		Validate:      validation.Plan,
		RefreshOnView: true,
	}
}

// SuppliersDomain — страница поставщиков. Вкладки — категории коллекции.
func SuppliersDomain() Domain[model.Supplier] {
	type T = model.Supplier
	return Domain[T]{
		Name:        "suppliers",
		Title:       "ui.domain.suppliers",
		Spec:        views.Suppliers(),
		ValuePrefix: valuePrefix,
		Table: []Column[T]{
			{"ui.field.name", "name", func(s T) string { return s.Name }},
			{"ui.field.company", "company", func(s T) string { return s.Company }},
			{"ui.field.country", "country", func(s T) string { return s.Country }},
			{"ui.field.rating", "rating", func(s T) string { return formatRating(s.Rating) }},
			{"ui.field.products_count", "products_count", func(s T) string { return strconv.Itoa(s.ProductsCount) }},
			{"ui.field.verified", "", func(s T) string { return strconv.FormatBool(s.Verified) }},
			{"ui.field.status", "", func(s T) string { return s.Status }},
		},
		Details: []Column[T]{
			{"ui.field.name", "", func(s T) string { return s.Name }},
			{"ui.field.company", "", func(s T) string { return s.Company }},
			{"ui.field.email", "", func(s T) string { return s.Email }},
			{"ui.field.phone", "", func(s T) string { return s.Phone }},
			{"ui.field.website", "", func(s T) string { return s.Website }},
			{"ui.field.category", "", func(s T) string { return s.Category }},
			{"ui.field.country", "", func(s T) string { return s.Country }},
			{"ui.field.rating", "", func(s T) string { return formatRating(s.Rating) }},
			{"ui.field.products_count", "", func(s T) string { return strconv.Itoa(s.ProductsCount) }},
			{"ui.field.verified", "", func(s T) string { return strconv.FormatBool(s.Verified) }},
			{"ui.field.status", "", func(s T) string { return s.Status }},
			{"ui.field.created_at", "", func(s T) string { return formatDate(s.CreatedAt) }},
		},
		Form: []FormField[T]{
			textField[T]("name", true, func(s T) *string { return &s.Name }, func(s *T) *string { return &s.Name }),
			textField[T]("company", true, func(s T) *string { return &s.Company }, func(s *T) *string { return &s.Company }),
			{Name: "email", Label: "ui.field.email", Type: "email", Required: true,
				Get: func(s T) string { return s.Email }, Set: func(s *T, v string) error { s.Email = v; return nil }},
			{Name: "phone", Label: "ui.field.phone", Type: "tel",
				Get: func(s T) string { return s.Phone }, Set: func(s *T, v string) error { s.Phone = v; return nil }},
			{Name: "website", Label: "ui.field.website", Type: "url",
				Get: func(s T) string { return s.Website }, Set: func(s *T, v string) error { s.Website = v; return nil }},
			textField[T]("category", true, func(s T) *string { return &s.Category }, func(s *T) *string { return &s.Category }),
			textField[T]("country", true, func(s T) *string { return &s.Country }, func(s *T) *string { return &s.Country }),
			{Name: "rating", Label: "ui.field.rating", Type: "number",
				Get: func(s T) string { return formatRating(s.Rating) },
				Set: func(s *T, v string) error { return parseFloat(v, &s.Rating) }},
			{Name: "products_count", Label: "ui.field.products_count", Type: "number",
				Get: func(s T) string { return strconv.Itoa(s.ProductsCount) },
				Set: func(s *T, v string) error { return parseInt(v, &s.ProductsCount) }},
			{Name: "status", Label: "ui.field.status", Type: "select",
				Options: []string{model.SupplierStatusActive, model.SupplierStatusSuspended},
				Get:     func(s T) string { return s.Status }, Set: func(s *T, v string) error { s.Status = v; return nil }},
		},
		Export: export.SupplierColumns,
		Actions: []Action[T]{
			{Name: "verify", Perm: rbac.PermSuppliersVerify, Bulk: true,
				Allowed: func(s T) bool { return !s.Verified },
				Apply:   func(s *T) { s.Verified = true }},
			{Name: "suspend", Perm: rbac.PermSuppliersManage, Confirm: true, Bulk: true, Destructive: true,
				Allowed: func(s T) bool { return s.Status != model.SupplierStatusSuspended },
				Apply:   func(s *T) { s.Status = model.SupplierStatusSuspended }},
			{Name: "activate", Perm: rbac.PermSuppliersManage, Bulk: true,
				Allowed: func(s T) bool { return s.Status != model.SupplierStatusActive },
				Apply:   func(s *T) { s.Status = model.SupplierStatusActive }},
			{Name: "delete", Perm: rbac.PermSuppliersManage, Confirm: true, Bulk: true, Destructive: true, Delete: true},
		},
		ManagePerm:    rbac.PermSuppliersManage,
		RecordTitle:   func(s T) string { return s.Name },
		Validate:      validation.Supplier,
		RefreshOnView: true,
	}
}

// --- Поля форм ---

// textField — текстовое поле; get и set адресуют одну строку записи.
func textField[T any](name string, required bool, get func(T) *string, set func(*T) *string) FormField[T] {
	return FormField[T]{
		Name:     name,
		Label:    "ui.field." + name,
		Type:     "text",
		Required: required,
		Get:      func(item T) string { return *get(item) },
		Set: func(item *T, v string) error {
			*set(item) = v
			return nil
		},
	}
}

// checkboxField — флажок. Браузер не отправляет снятый флажок,
// поэтому отсутствие значения означает false.
func checkboxField[T any](name string, get func(T) bool, set func(*T, bool)) FormField[T] {
	return FormField[T]{
		Name:  name,
		Label: "ui.field." + name,
		Type:  "checkbox",
		Get:   func(item T) string { return strconv.FormatBool(get(item)) },
		Set: func(item *T, v string) error {
			set(item, v == "true" || v == "on")
			return nil
		},
	}
}

func parseInt(v string, dst *int) error {
	v = strings.TrimSpace(v)
	if v == "" {
		*dst = 0
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func parseInt64(v string, dst *int64) error {
	v = strings.TrimSpace(v)
	if v == "" {
		*dst = 0
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func parseFloat(v string, dst *float64) error {
	v = strings.TrimSpace(v)
	if v == "" {
		*dst = 0
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errNotFinite
	}
	*dst = f
	return nil
}

// errNotFinite — NaN и бесконечности не являются допустимыми числами формы.
var errNotFinite = errors.New("число должно быть конечным")

// parseOptionalFloat — пустое значение означает «неизвестно» (nil).
func parseOptionalFloat(v string, dst **float64) error {
	v = strings.TrimSpace(v)
	if v == "" {
		*dst = nil
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errNotFinite
	}
	*dst = &f
	return nil
}

// parseRupees переводит сумму в рупиях в пайсы.
func parseRupees(v string, dst *int64) error {
	var rupees float64
	if err := parseFloat(v, &rupees); err != nil {
		return err
	}
	*dst = int64(math.Round(rupees * 100))
	return nil
}

// splitLines разбивает текст на непустые строки.
func splitLines(v string) []string {
	out := []string{}
	for _, line := range strings.Split(v, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// --- Форматирование ячеек ---

func formatINR(paise int64) string { return "₹" + export.Amount(paise) }

func formatRating(r float64) string { return strconv.FormatFloat(r, 'f', 1, 64) }

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func optionalNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
