package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/bigkaa/backoffice/internal/domain/model"
)

// OrderColumns — колонки выгрузки заказов.
var OrderColumns = []Column[model.Order]{
	{"Order ID", func(o model.Order) string { return o.ID }},
	{"Customer Email", func(o model.Order) string { return o.User.Email }},
	{"Customer Name", func(o model.Order) string { return o.User.Name }},
	{"Plan", func(o model.Order) string { return o.Plan.Name }},
	{"Amount (INR)", func(o model.Order) string { return Amount(o.AmountINR) }},
	{"Status", func(o model.Order) string { return o.Status }},
	{"Payment Method", func(o model.Order) string { return o.PaymentMethod }},
	{"Created At", func(o model.Order) string { return Timestamp(o.CreatedAt) }},
}

// StoreColumns — колонки выгрузки конкурентных магазинов.
var StoreColumns = []Column[model.CompetitorStore]{
	{"Name", func(s model.CompetitorStore) string { return s.Name }},
	{"URL", func(s model.CompetitorStore) string { return s.URL }},
	{"Category", func(s model.CompetitorStore) string { return s.Category }},
	{"Platform", func(s model.CompetitorStore) string { return s.Platform }},
	{"Country", func(s model.CompetitorStore) string { return s.Country }},
	{"Monthly Traffic", func(s model.CompetitorStore) string { return strconv.FormatInt(s.MonthlyTraffic, 10) }},
	{"Monthly Revenue", func(s model.CompetitorStore) string { return optionalFloat(s.MonthlyRevenue) }},
	{"Rating", func(s model.CompetitorStore) string { return strconv.FormatFloat(s.Rating, 'f', 1, 64) }},
	{"Products", func(s model.CompetitorStore) string { return strconv.Itoa(s.ProductCount) }},
	{"Verified", func(s model.CompetitorStore) string { return yesNo(s.Verified) }},
	{"Status", func(s model.CompetitorStore) string { return s.Status }},
	{"Created At", func(s model.CompetitorStore) string { return Timestamp(s.CreatedAt) }},
}

// ExternalUserColumns — колонки выгрузки внешних пользователей.
var ExternalUserColumns = []Column[model.ExternalUser]{
	{"Name", func(u model.ExternalUser) string { return u.Name }},
	{"Email", func(u model.ExternalUser) string { return u.Email }},
	{"Username", func(u model.ExternalUser) string { return u.Username }},
	{"Company", func(u model.ExternalUser) string { return u.Company }},
	{"Plan", func(u model.ExternalUser) string { return u.Plan }},
	{"Status", func(u model.ExternalUser) string { return u.Status }},
	{"Email Verified", func(u model.ExternalUser) string { return yesNo(u.EmailVerified) }},
	{"Orders", func(u model.ExternalUser) string { return strconv.Itoa(u.OrdersCount) }},
	{"Total Spent (INR)", func(u model.ExternalUser) string { return Amount(u.TotalSpentINR) }},
	{"Last Login", func(u model.ExternalUser) string { return optionalTime(u.LastLoginAt) }},
	{"Created At", func(u model.ExternalUser) string { return Timestamp(u.CreatedAt) }},
}

// InternalUserColumns — колонки выгрузки сотрудников.
var InternalUserColumns = []Column[model.InternalUser]{
	{"Name", func(u model.InternalUser) string { return u.Name }},
	{"Email", func(u model.InternalUser) string { return u.Email }},
	{"Username", func(u model.InternalUser) string { return u.Username }},
	{"Role", func(u model.InternalUser) string { return u.Role }},
	{"Department", func(u model.InternalUser) string { return u.Department }},
	{"Phone", func(u model.InternalUser) string { return optionalString(u.Phone) }},
	{"Status", func(u model.InternalUser) string { return u.Status }},
	{"Last Active", func(u model.InternalUser) string { return optionalTime(u.LastActiveAt) }},
	{"Created At", func(u model.InternalUser) string { return Timestamp(u.CreatedAt) }},
}

// PlanColumns — колонки выгрузки тарифов.
var PlanColumns = []Column[model.Plan]{
	{"Name", func(p model.Plan) string { return p.Name }},
	{"Slug", func(p model.Plan) string { return p.Slug }},
	{"Price (INR)", func(p model.Plan) string { return Amount(p.PriceINR) }},
	{"Billing Interval", func(p model.Plan) string { return p.BillingInterval }},
	{"Max Stores", func(p model.Plan) string { return strconv.Itoa(p.MaxStores) }},
	{"Features", func(p model.Plan) string { return strings.Join(p.Features, "; ") }},
	{"Active", func(p model.Plan) string { return yesNo(p.IsActive) }},
	{"Subscribers", func(p model.Plan) string { return strconv.Itoa(p.SubscriberCount) }},
	{"Created At", func(p model.Plan) string { return Timestamp(p.CreatedAt) }},
}

// SupplierColumns — колонки выгрузки поставщиков.
var SupplierColumns = []Column[model.Supplier]{
	{"Name", func(s model.Supplier) string { return s.Name }},
	{"Company", func(s model.Supplier) string { return s.Company }},
	{"Email", func(s model.Supplier) string { return s.Email }},
	{"Phone", func(s model.Supplier) string { return s.Phone }},
	{"Website", func(s model.Supplier) string { return s.Website }},
	{"Category", func(s model.Supplier) string { return s.Category }},
	{"Country", func(s model.Supplier) string { return s.Country }},
	{"Verified", func(s model.Supplier) string { return yesNo(s.Verified) }},
	{"Rating", func(s model.Supplier) string { return strconv.FormatFloat(s.Rating, 'f', 1, 64) }},
	{"Products", func(s model.Supplier) string { return strconv.Itoa(s.ProductsCount) }},
	{"Status", func(s model.Supplier) string { return s.Status }},
	{"Created At", func(s model.Supplier) string { return Timestamp(s.CreatedAt) }},
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return Timestamp(*t)
}
