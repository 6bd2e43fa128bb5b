package domain

import (
	"math"
	"strconv"
	"strings"
)

// FilterCriteria - набор ограничений, выбранных пользователем в рамках UI-сессии.
// Пустые срезы и nil-границы означают отсутствие ограничения.
type FilterCriteria struct {
	ConditionTypes []Condition
	StateTypes     []string
	MinPrice       *float64
	MaxPrice       *float64
	SearchTerm     string
}

// IsEmpty сообщает, что ни одно ограничение не задано.
func (c FilterCriteria) IsEmpty() bool {
	return len(c.ConditionTypes) == 0 &&
		len(c.StateTypes) == 0 &&
		c.MinPrice == nil &&
		c.MaxPrice == nil &&
		c.SearchTerm == ""
}

// Clone возвращает копию, не разделяющую память с исходными критериями.
func (c FilterCriteria) Clone() FilterCriteria {
	out := FilterCriteria{SearchTerm: c.SearchTerm}
	if c.ConditionTypes != nil {
		out.ConditionTypes = append([]Condition(nil), c.ConditionTypes...)
	}
	if c.StateTypes != nil {
		out.StateTypes = append([]string(nil), c.StateTypes...)
	}
	if c.MinPrice != nil {
		v := *c.MinPrice
		out.MinPrice = &v
	}
	if c.MaxPrice != nil {
		v := *c.MaxPrice
		out.MaxPrice = &v
	}
	return out
}

// ParsePriceBound превращает строку из поля ввода в границу цены.
// Пустая или нечисловая строка дает nil: граница считается не заданной.
func ParsePriceBound(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ParsePrice разбирает цену объявления. ok=false, если строка не число.
func ParsePrice(raw string) (float64, bool) {
	v := ParsePriceBound(raw)
	if v == nil {
		return 0, false
	}
	return *v, true
}
