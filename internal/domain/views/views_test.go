package views

import (
	"testing"
	"time"

	"github.com/bigkaa/backoffice/internal/domain/model"
	"github.com/bigkaa/backoffice/internal/listing"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// TestNeedsAttention проверяет границу «старше 24 часов» (строго больше).
func TestNeedsAttention(t *testing.T) {
	tests := []struct {
		name   string
		status string
		age    time.Duration
		want   bool
	}{
		{"failed свежий", model.OrderStatusFailed, time.Minute, true},
		{"pending свежий", model.OrderStatusPending, time.Hour, false},
		{"pending ровно 24ч", model.OrderStatusPending, 24 * time.Hour, false},
		{"pending 24ч+1мс", model.OrderStatusPending, 24*time.Hour + time.Millisecond, true},
		{"paid старый", model.OrderStatusPaid, 100 * time.Hour, false},
		{"refunded старый", model.OrderStatusRefunded, 100 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := model.Order{Status: tt.status, CreatedAt: now.Add(-tt.age)}
			if got := NeedsAttention(o, now); got != tt.want {
				t.Errorf("NeedsAttention = %v, ожидалось %v", got, tt.want)
			}
		})
	}
}

// TestStores_QuickFilterExclusivity — магазин подходит под high_traffic и verified,
// после выбора второго фильтра активен только verified.
func TestStores_QuickFilterExclusivity(t *testing.T) {
	stores := []model.CompetitorStore{
		{ID: "s1", MonthlyTraffic: 150000, Verified: true},
		{ID: "s2", MonthlyTraffic: 150000},
		{ID: "s3", MonthlyTraffic: 10, Verified: true},
	}
	c := listing.Criteria{}.ToggleQuickFilter(QuickHighTraffic).ToggleQuickFilter(QuickVerified)
	if c.QuickFilter != QuickVerified {
		t.Fatalf("активный фильтр: %q", c.QuickFilter)
	}
	got := listing.Filter(Stores(), stores, c, now)
	if len(got) != 2 || got[0].ID != "s1" || got[1].ID != "s3" {
		t.Errorf("ожидались s1, s3, получено %+v", got)
	}
}

func TestStores_HighRevenueNilSafe(t *testing.T) {
	rev := 2_000_000.0
	stores := []model.CompetitorStore{{ID: "a"}, {ID: "b", MonthlyRevenue: &rev}}
	got := listing.Filter(Stores(), stores, listing.Criteria{QuickFilter: QuickHighRevenue}, now)
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("ожидался только b, получено %+v", got)
	}
}

func TestOrders_DefaultNewestFirst(t *testing.T) {
	orders := []model.Order{
		{ID: "o1", CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "o2", CreatedAt: now.Add(-time.Hour)},
		{ID: "o3", CreatedAt: now.Add(-2 * time.Hour)},
	}
	sorted := listing.Sort(Orders(), orders)
	if sorted[0].ID != "o2" || sorted[1].ID != "o3" || sorted[2].ID != "o1" {
		t.Errorf("ожидался порядок o2, o3, o1, получено %s, %s, %s", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}

	// Другие домены сохраняют порядок фильтра.
	plans := []model.Plan{{ID: "p2"}, {ID: "p1"}}
	if got := listing.Sort(Plans(), plans); got[0].ID != "p2" {
		t.Errorf("порядок тарифов изменён: %+v", got)
	}
}

func TestOrders_SearchSnapshots(t *testing.T) {
	orders := []model.Order{
		{ID: "ord_1", User: model.UserSnapshot{Email: "asha@example.in"}, Plan: model.PlanSnapshot{Name: "Pro"}},
		{ID: "ord_2", User: model.UserSnapshot{Email: "ravi@example.in"}, Plan: model.PlanSnapshot{Name: "Starter"}, GatewayRef: "pay_ABC"},
	}
	for q, want := range map[string]string{"ASHA": "ord_1", "starter": "ord_2", "pay_abc": "ord_2"} {
		got := listing.Filter(Orders(), orders, listing.Criteria{Search: q}, now)
		if len(got) != 1 || got[0].ID != want {
			t.Errorf("поиск %q: ожидался %s, получено %+v", q, want, got)
		}
	}
}

func TestPlans_TabsByBucket(t *testing.T) {
	plans := []model.Plan{{ID: "a", IsActive: true}, {ID: "b"}, {ID: "c", IsActive: true}}
	got := listing.Filter(Plans(), plans, listing.Criteria{Tab: model.PlanTabInactive}, now)
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("вкладка inactive: %+v", got)
	}
}

func TestExternalUsers_Inactive(t *testing.T) {
	recent := now.Add(-24 * time.Hour)
	old := now.Add(-40 * 24 * time.Hour)
	users := []model.ExternalUser{
		{ID: "never"},
		{ID: "recent", LastLoginAt: &recent},
		{ID: "old", LastLoginAt: &old},
	}
	got := listing.Filter(ExternalUsers(), users, listing.Criteria{QuickFilter: QuickInactive}, now)
	if len(got) != 2 || got[0].ID != "never" || got[1].ID != "old" {
		t.Errorf("ожидались never, old, получено %+v", got)
	}
}

func TestInternalUsers_Admins(t *testing.T) {
	users := []model.InternalUser{
		{ID: "1", Role: model.InternalRoleSuperAdmin},
		{ID: "2", Role: model.InternalRoleSupport},
		{ID: "3", Role: model.InternalRoleAdmin},
	}
	got := listing.Filter(InternalUsers(), users, listing.Criteria{QuickFilter: QuickAdmins}, now)
	if len(got) != 2 {
		t.Errorf("ожидались 2 администратора, получено %d", len(got))
	}
}
