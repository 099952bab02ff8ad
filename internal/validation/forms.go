package validation

import (
	"context"

	"github.com/bigkaa/backoffice/internal/domain/model"
)

// InternalUser проверяет форму сотрудника против коллекции existing.
func InternalUser(ctx context.Context, u model.InternalUser, existing []model.InternalUser) Errors {
	f := newForm(ctx)
	id := func(x model.InternalUser) string { return x.ID }

	if f.required("name", u.Name) {
		f.maxLen("name", u.Name, 100)
	}
	if f.email("email", u.Email) &&
		!unique(existing, u.ID, id, func(x model.InternalUser) string { return x.Email }, u.Email) {
		f.add("email", "validation.email_taken")
	}
	if f.required("username", u.Username) {
		if !usernamePattern.MatchString(u.Username) {
			f.add("username", "validation.username_invalid")
		} else if !unique(existing, u.ID, id, func(x model.InternalUser) string { return x.Username }, u.Username) {
			f.add("username", "validation.username_taken")
		}
	}
	f.oneOf("role", u.Role, model.InternalRoles...)
	f.required("department", u.Department)
	if u.Phone != nil {
		f.optionalPhone("phone", *u.Phone)
	}
	if u.Status != "" {
		f.oneOf("status", u.Status, model.InternalStatusActive, model.InternalStatusInactive)
	}
	return f.errs
}

// ExternalUser проверяет форму внешнего пользователя.
func ExternalUser(ctx context.Context, u model.ExternalUser, existing []model.ExternalUser) Errors {
	f := newForm(ctx)
	id := func(x model.ExternalUser) string { return x.ID }

	if f.required("name", u.Name) {
		f.maxLen("name", u.Name, 100)
	}
	if f.email("email", u.Email) &&
		!unique(existing, u.ID, id, func(x model.ExternalUser) string { return x.Email }, u.Email) {
		f.add("email", "validation.email_taken")
	}
	if f.required("username", u.Username) {
		if !usernamePattern.MatchString(u.Username) {
			f.add("username", "validation.username_invalid")
		} else if !unique(existing, u.ID, id, func(x model.ExternalUser) string { return x.Username }, u.Username) {
			f.add("username", "validation.username_taken")
		}
	}
	f.oneOf("plan", u.Plan, model.UserPlanFree, model.UserPlanStarter, model.UserPlanPro, model.UserPlanEnterprise)
	if u.Status != "" {
		f.oneOf("status", u.Status, model.UserStatusActive, model.UserStatusSuspended, model.UserStatusPending)
	}
	f.nonNegative("total_spent_inr", u.TotalSpentINR)
	return f.errs
}

// Store проверяет форму конкурентного магазина.
func Store(ctx context.Context, s model.CompetitorStore, existing []model.CompetitorStore) Errors {
	f := newForm(ctx)

	if f.required("name", s.Name) {
		f.maxLen("name", s.Name, 120)
	}
	f.url("url", s.URL, true)
	if _, failed := f.errs["url"]; !failed &&
		!unique(existing, s.ID, model.CompetitorStore.GetID, func(x model.CompetitorStore) string { return x.URL }, s.URL) {
		f.add("url", "validation.url_taken")
	}
	f.required("category", s.Category)
	f.required("platform", s.Platform)
	f.required("country", s.Country)
	f.nonNegative("monthly_traffic", s.MonthlyTraffic)
	if rev := s.MonthlyRevenue; rev != nil {
		switch {
		case !finite(*rev):
			f.add("monthly_revenue", "validation.number_invalid")
		case *rev < 0:
			f.add("monthly_revenue", "validation.non_negative")
		}
	}
	f.rangeFloat("rating", s.Rating, 0, 5)
	f.nonNegative("product_count", int64(s.ProductCount))
	if s.Status != "" {
		f.oneOf("status", s.Status, model.StoreStatusActive, model.StoreStatusMonitoring, model.StoreStatusArchived)
	}
	return f.errs
}

// Plan проверяет форму тарифа.
func Plan(ctx context.Context, p model.Plan, existing []model.Plan) Errors {
	f := newForm(ctx)

	if f.required("name", p.Name) {
		f.maxLen("name", p.Name, 80)
	}
	if f.required("slug", p.Slug) {
		if !slugPattern.MatchString(p.Slug) {
			f.add("slug", "validation.slug_invalid")
		} else if !unique(existing, p.ID, model.Plan.GetID, func(x model.Plan) string { return x.Slug }, p.Slug) {
			f.add("slug", "validation.slug_taken")
		}
	}
	f.maxLen("description", p.Description, 500)
	f.nonNegative("price_inr", p.PriceINR)
	f.oneOf("billing_interval", p.BillingInterval, model.BillingMonthly, model.BillingYearly)
	f.nonNegative("max_stores", int64(p.MaxStores))
	f.nonNegative("sort_order", int64(p.SortOrder))
	return f.errs
}

// Supplier проверяет форму поставщика.
func Supplier(ctx context.Context, s model.Supplier, existing []model.Supplier) Errors {
	f := newForm(ctx)

	if f.required("name", s.Name) {
		f.maxLen("name", s.Name, 120)
	}
	f.required("company", s.Company)
	if f.email("email", s.Email) &&
		!unique(existing, s.ID, model.Supplier.GetID, func(x model.Supplier) string { return x.Email }, s.Email) {
		f.add("email", "validation.email_taken")
	}
	f.optionalPhone("phone", s.Phone)
	f.url("website", s.Website, false)
	f.required("category", s.Category)
	f.required("country", s.Country)
	f.rangeFloat("rating", s.Rating, 0, 5)
	f.nonNegative("products_count", int64(s.ProductsCount))
	if s.Status != "" {
		f.oneOf("status", s.Status, model.SupplierStatusActive, model.SupplierStatusSuspended)
	}
	return f.errs
}
