// Пакет rbac — роли операторов Back Office и их права.
// Роль определяется по группам IdP (максимальная из совпавших),
// права проверяются до открытия диалога подтверждения и до запроса.
package rbac

import (
	"errors"
	"fmt"
)

// Роли в порядке возрастания привилегий.
const (
	RoleReadonly = "readonly"
	RoleSupport  = "support"
	RoleAdmin    = "admin"
)

// Права — именованные возможности, проверяемые перед действием.
const (
	PermStoresManage        = "stores.manage"
	PermUsersManage         = "users.manage"
	PermUsersSuspend        = "users.suspend"
	PermInternalUsersManage = "internal_users.manage"
	PermOrdersRefund        = "orders.refund"
	PermOrdersManage        = "orders.manage"
	PermPlansManage         = "plans.manage"
	PermSuppliersManage     = "suppliers.manage"
	PermSuppliersVerify     = "suppliers.verify"
	PermExportCSV           = "export.csv"
)

// ErrPermissionDenied — у роли нет права на действие.
var ErrPermissionDenied = errors.New("permission denied")

// roleWeight — вес роли для сравнения.
// Чем выше вес, тем больше привилегий.
var roleWeight = map[string]int{
	RoleReadonly: 1,
	RoleSupport:  2,
	RoleAdmin:    3,
}

// rolePermissions — права каждой роли. admin имеет все права.
var rolePermissions = map[string]map[string]bool{
	RoleReadonly: {
		PermExportCSV: true,
	},
	RoleSupport: {
		PermExportCSV:       true,
		PermUsersSuspend:    true,
		PermOrdersRefund:    true,
		PermSuppliersVerify: true,
	},
}

// Can проверяет, есть ли у роли право perm.
func Can(role, perm string) bool {
	if role == RoleAdmin {
		return true
	}
	return rolePermissions[role][perm]
}

// Require возвращает ErrPermissionDenied, если у роли нет права perm.
func Require(role, perm string) error {
	if Can(role, perm) {
		return nil
	}
	return fmt.Errorf("%w: %s требует %s", ErrPermissionDenied, roleOrNone(role), perm)
}

// maxRole возвращает роль с максимальными привилегиями из двух.
func maxRole(a, b string) string {
	if roleWeight[a] >= roleWeight[b] {
		return a
	}
	return b
}

// HighestRole возвращает максимальную роль из набора.
// Если набор пуст — возвращает пустую строку.
func HighestRole(roles []string) string {
	if len(roles) == 0 {
		return ""
	}
	highest := roles[0]
	for _, r := range roles[1:] {
		highest = maxRole(highest, r)
	}
	return highest
}

// GroupMapping — группы IdP, соответствующие ролям.
type GroupMapping struct {
	Admin    []string
	Support  []string
	Readonly []string
}

// MapGroupsToRole определяет роль пользователя на основе его групп IdP.
// Возвращает максимальную роль из всех совпадений.
// Если ни одна группа не совпала — возвращает пустую строку.
func MapGroupsToRole(groups []string, m GroupMapping) string {
	adminSet := toSet(m.Admin)
	supportSet := toSet(m.Support)
	readonlySet := toSet(m.Readonly)

	var roles []string
	for _, g := range groups {
		if adminSet[g] {
			roles = append(roles, RoleAdmin)
		}
		if supportSet[g] {
			roles = append(roles, RoleSupport)
		}
		if readonlySet[g] {
			roles = append(roles, RoleReadonly)
		}
	}

	return HighestRole(roles)
}

// IsValidRole проверяет, является ли строка допустимой ролью.
func IsValidRole(role string) bool {
	_, ok := roleWeight[role]
	return ok
}

func roleOrNone(role string) string {
	if role == "" {
		return "(нет роли)"
	}
	return role
}

// toSet конвертирует срез строк в map для быстрого поиска.
func toSet(items []string) map[string]bool {
	s := make(map[string]bool, len(items))
	for _, item := range items {
		s[item] = true
	}
	return s
}
