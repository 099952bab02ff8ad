package validation

import (
	"context"
	"math"
	"os"
	"testing"

	"github.com/bigkaa/backoffice/internal/domain/model"
	"github.com/bigkaa/backoffice/internal/i18n"
)

func TestMain(m *testing.M) {
	b, err := i18n.Load(nil)
	if err != nil {
		panic(err)
	}
	i18n.SetDefault(b)
	os.Exit(m.Run())
}

func existingUsers() []model.InternalUser {
	return []model.InternalUser{
		{ID: "u1", Name: "Asha Rao", Email: "asha@backoffice.in", Username: "asha", Role: model.InternalRoleAdmin, Department: "Ops"},
		{ID: "u2", Name: "Ravi Kumar", Email: "ravi@backoffice.in", Username: "ravi", Role: model.InternalRoleSupport, Department: "Support"},
	}
}

// TestInternalUser_DuplicateEmail — email совпадает (без учёта регистра)
// с другой записью.
func TestInternalUser_DuplicateEmail(t *testing.T) {
	u := model.InternalUser{
		Name: "New Person", Email: "ASHA@backoffice.in", Username: "newp",
		Role: model.InternalRoleViewer, Department: "Sales",
	}
	errs := InternalUser(context.Background(), u, existingUsers())
	if got := errs["email"]; got != "This email is already in use" {
		t.Errorf("errs[email] = %q", got)
	}
}

// TestInternalUser_EditKeepsOwnEmail — при редактировании запись не
// конфликтует сама с собой.
func TestInternalUser_EditKeepsOwnEmail(t *testing.T) {
	u := existingUsers()[0]
	u.Name = "Asha R."
	if errs := InternalUser(context.Background(), u, existingUsers()); !errs.OK() {
		t.Errorf("неожиданные ошибки: %v", errs)
	}

	u.Username = "RAVI"
	errs := InternalUser(context.Background(), u, existingUsers())
	if _, ok := errs["username"]; !ok {
		t.Error("ожидалась ошибка username (занят другой записью)")
	}
}

func TestInternalUser_RequiredAndFormat(t *testing.T) {
	phone := "abc"
	errs := InternalUser(context.Background(), model.InternalUser{Email: "not-an-email", Role: "god", Phone: &phone}, nil)

	for _, field := range []string{"name", "email", "username", "role", "department", "phone"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("ожидалась ошибка поля %s, получено %v", field, errs)
		}
	}
	if errs["name"] != "This field is required" {
		t.Errorf("errs[name] = %q", errs["name"])
	}
	if errs.Err() == nil {
		t.Error("Err() должен вернуть ошибку")
	}
}

func TestRussianMessages(t *testing.T) {
	ctx := i18n.WithLang(context.Background(), "ru")
	u := model.InternalUser{Name: "X", Email: "asha@backoffice.in", Username: "xx_x", Role: model.InternalRoleViewer, Department: "D"}
	errs := InternalUser(ctx, u, existingUsers())
	if errs["email"] != "Этот email уже используется" {
		t.Errorf("errs[email] = %q", errs["email"])
	}
}

func TestPlan(t *testing.T) {
	existing := []model.Plan{{ID: "p1", Slug: "pro"}}
	tests := []struct {
		name  string
		plan  model.Plan
		field string
	}{
		{"slug занят", model.Plan{Name: "Pro 2", Slug: "PRO", BillingInterval: model.BillingMonthly}, "slug"},
		{"slug формат", model.Plan{Name: "X", Slug: "Pro Plan", BillingInterval: model.BillingMonthly}, "slug"},
		{"отрицательная цена", model.Plan{Name: "X", Slug: "x", PriceINR: -1, BillingInterval: model.BillingMonthly}, "price_inr"},
		{"период оплаты", model.Plan{Name: "X", Slug: "x", BillingInterval: "weekly"}, "billing_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Plan(context.Background(), tt.plan, existing)
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("ожидалась ошибка %s, получено %v", tt.field, errs)
			}
		})
	}

	ok := model.Plan{ID: "p1", Name: "Pro", Slug: "pro", BillingInterval: model.BillingYearly}
	if errs := Plan(context.Background(), ok, existing); !errs.OK() {
		t.Errorf("неожиданные ошибки: %v", errs)
	}
}

func TestSupplier(t *testing.T) {
	s := model.Supplier{
		Name: "Spice Route", Company: "Spice Route Pvt Ltd", Email: "sales@spiceroute.in",
		Phone: "+91 98765 43210", Website: "spiceroute.in", Category: "food", Country: "IN", Rating: 4.2,
	}
	if errs := Supplier(context.Background(), s, nil); !errs.OK() {
		t.Fatalf("неожиданные ошибки: %v", errs)
	}

	s.Website = "ftp://spiceroute.in"
	s.Rating = 7
	errs := Supplier(context.Background(), s, nil)
	if _, ok := errs["website"]; !ok {
		t.Error("ожидалась ошибка website")
	}
	if _, ok := errs["rating"]; !ok {
		t.Error("ожидалась ошибка rating")
	}
}

func TestStore(t *testing.T) {
	rev := -5.0
	errs := Store(context.Background(), model.CompetitorStore{
		Name: "Shop", URL: "not a url", Category: "fashion", Platform: "shopify", Country: "IN",
		MonthlyRevenue: &rev, Rating: 3,
	}, nil)
	for _, field := range []string{"url", "monthly_revenue"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("ожидалась ошибка %s, получено %v", field, errs)
		}
	}
}

// TestNonFiniteNumbers — NaN и бесконечности не проходят проверку диапазона.
func TestNonFiniteNumbers(t *testing.T) {
	ctx := context.Background()
	store := model.CompetitorStore{
		Name: "Shop", URL: "https://shop.in", Category: "fashion", Platform: "shopify", Country: "IN", Rating: 3,
	}
	supplier := model.Supplier{
		Name: "Spice Route", Company: "Spice Route Pvt Ltd", Email: "sales@spiceroute.in",
		Website: "spiceroute.in", Category: "food", Country: "IN", Rating: 4,
	}

	tests := []struct {
		name  string
		errs  func(v float64) Errors
		field string
	}{
		{"рейтинг магазина", func(v float64) Errors {
			s := store
			s.Rating = v
			return Store(ctx, s, nil)
		}, "rating"},
		{"выручка магазина", func(v float64) Errors {
			s := store
			s.MonthlyRevenue = &v
			return Store(ctx, s, nil)
		}, "monthly_revenue"},
		{"рейтинг поставщика", func(v float64) Errors {
			s := supplier
			s.Rating = v
			return Supplier(ctx, s, nil)
		}, "rating"},
	}

	want := i18n.T(ctx, "validation.number_invalid")
	for _, tt := range tests {
		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			errs := tt.errs(v)
			if errs[tt.field] != want {
				t.Errorf("%s = %v: ошибки %v, ожидали %s: %q", tt.name, v, errs, tt.field, want)
			}
		}
	}
}

func TestExternalUser_DuplicateEmail(t *testing.T) {
	existing := []model.ExternalUser{{ID: "e1", Email: "meera@example.in", Username: "meera"}}
	u := model.ExternalUser{Name: "Meera", Email: "Meera@Example.in", Username: "meera2", Plan: model.UserPlanFree}
	errs := ExternalUser(context.Background(), u, existing)
	if errs["email"] != "This email is already in use" {
		t.Errorf("errs[email] = %q", errs["email"])
	}
}
