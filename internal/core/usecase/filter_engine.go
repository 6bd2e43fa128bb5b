package usecase

import (
	"farmboard/internal/core/domain"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// postingPredicate - одно независимое условие фильтра.
type postingPredicate func(domain.Posting) bool

// filterPredicates строит по условию на каждый заданный критерий.
// Условия не зависят друг от друга и объединяются только через И.
func filterPredicates(criteria domain.FilterCriteria) []postingPredicate {
	var predicates []postingPredicate

	if len(criteria.ConditionTypes) > 0 {
		allowed := slices.Clone(criteria.ConditionTypes)
		predicates = append(predicates, func(p domain.Posting) bool {
			return slices.Contains(allowed, p.Condition)
		})
	}

	if len(criteria.StateTypes) > 0 {
		allowed := slices.Clone(criteria.StateTypes)
		predicates = append(predicates, func(p domain.Posting) bool {
			return slices.Contains(allowed, p.UserState)
		})
	}

	if criteria.MinPrice != nil {
		minPrice := *criteria.MinPrice
		predicates = append(predicates, func(p domain.Posting) bool {
			return p.HasPrice && p.Price >= minPrice
		})
	}

	if criteria.MaxPrice != nil {
		maxPrice := *criteria.MaxPrice
		predicates = append(predicates, func(p domain.Posting) bool {
			return p.HasPrice && p.Price <= maxPrice
		})
	}

	if criteria.SearchTerm != "" {
		// cases.Caser хранит состояние, поэтому свой на каждый вызов.
		lower := cases.Lower(language.Und)
		term := lower.String(criteria.SearchTerm)
		predicates = append(predicates, func(p domain.Posting) bool {
			return strings.Contains(lower.String(p.Title), term)
		})
	}

	return predicates
}

func matchesAll(p domain.Posting, predicates []postingPredicate) bool {
	for _, pred := range predicates {
		if !pred(p) {
			return false
		}
	}
	return true
}

// ApplyFilters вычисляет отображаемый набор из всей коллекции и критериев.
// Чистая функция: входной срез не меняется, порядок сохраняется.
func ApplyFilters(postings []domain.Posting, criteria domain.FilterCriteria) []domain.Posting {
	predicates := filterPredicates(criteria)

	out := make([]domain.Posting, 0, len(postings))
	for _, p := range postings {
		if matchesAll(p, predicates) {
			out = append(out, p)
		}
	}
	return out
}
