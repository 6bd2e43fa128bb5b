package domain

import "time"

// Condition - состояние товара в объявлении маркетплейса.
type Condition string

const (
	ConditionNew         Condition = "New"
	ConditionUsedLikeNew Condition = "Used: Like New"
	ConditionUsedGood    Condition = "Used: Good"
	ConditionUsedFair    Condition = "Used: Fair"
	ConditionUsedBad     Condition = "Used: Bad"
)

// AllConditions перечисляет допустимые значения в порядке показа в фильтре.
var AllConditions = []Condition{
	ConditionNew,
	ConditionUsedLikeNew,
	ConditionUsedGood,
	ConditionUsedFair,
	ConditionUsedBad,
}

// IsKnown сообщает, входит ли значение в фиксированный набор.
func (c Condition) IsKnown() bool {
	for _, known := range AllConditions {
		if c == known {
			return true
		}
	}
	return false
}

// Posting - объявление маркетплейса в том виде, в каком его отдает бэкенд.
// Цена разбирается один раз на границе API и дальше не парсится.
type Posting struct {
	ID        string
	Title     string
	RawPrice  string
	Price     float64
	HasPrice  bool
	Condition Condition
	UserState string
	UserID    string
	UserPhone string
	Images    []string
	CreatedAt time.Time
}
