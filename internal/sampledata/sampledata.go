// Пакет sampledata — встроенные образцы данных для страниц без реального
// endpoint: магазины-конкуренты, внешние пользователи, заказы.
package sampledata

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bigkaa/backoffice/internal/domain/model"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Stores возвращает образцы магазинов-конкурентов.
func Stores() ([]model.CompetitorStore, error) {
	return load[model.CompetitorStore]("stores.yaml")
}

// ExternalUsers возвращает образцы внешних пользователей.
func ExternalUsers() ([]model.ExternalUser, error) {
	return load[model.ExternalUser]("external_users.yaml")
}

// Orders возвращает образцы заказов со снимками на момент оформления.
func Orders() ([]model.Order, error) {
	return load[model.Order]("orders.yaml")
}

// normalizer — запись, приводимая к контракту полей.
type normalizer[T any] interface {
	Normalized() T
}

func load[T normalizer[T]](name string) ([]T, error) {
	data, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("sampledata: чтение %s: %w", name, err)
	}

	var items []T
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("sampledata: парсинг %s: %w", name, err)
	}
	for i := range items {
		items[i] = items[i].Normalized()
	}
	return items, nil
}
