package service

import (
	"sort"

	"schoolku_backend/internals/features/finance/accounting/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

type Totals struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Net     int64 `json:"net"`
}

func (t *Totals) add(e *model.LedgerEntryModel) {
	switch e.LedgerEntryKind {
	case model.KindIncome:
		t.Income += e.LedgerEntryAmount
	case model.KindExpense:
		t.Expense += e.LedgerEntryAmount
	}
	t.Net = t.Income - t.Expense
}

// CategoryShare: Share is the percentage of its kind's total.
type CategoryShare struct {
	Kind     string  `json:"kind"`
	Category string  `json:"category"`
	Amount   int64   `json:"amount"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`
}

type MonthPoint struct {
	Month string `json:"month"`
	Totals
}

type Summary struct {
	Window     dbtime.Window   `json:"window"`
	Totals     Totals          `json:"totals"`
	ByCategory []CategoryShare `json:"by_category"`
	Monthly    []MonthPoint    `json:"monthly"`
}

// Summarize rolls entries up in a single pass. Every month the window touches
// gets a point, including months with no entries.
func Summarize(entries []model.LedgerEntryModel, w dbtime.Window) Summary {
	s := Summary{Window: w}

	type catKey struct {
		kind     model.Kind
		category string
	}
	cats := map[catKey]*CategoryShare{}
	months := map[string]*MonthPoint{}
	var order []string
	for m := dbtime.MonthStart(w.From); !m.After(w.To); m = m.AddDate(0, 1, 0) {
		k := dbtime.MonthKey(m)
		months[k] = &MonthPoint{Month: k}
		order = append(order, k)
	}

	for i := range entries {
		e := &entries[i]
		s.Totals.add(e)

		k := catKey{e.LedgerEntryKind, e.LedgerEntryCategory}
		cs, ok := cats[k]
		if !ok {
			cs = &CategoryShare{Kind: string(e.LedgerEntryKind), Category: e.LedgerEntryCategory}
			cats[k] = cs
		}
		cs.Amount += e.LedgerEntryAmount
		cs.Count++

		if mp, ok := months[dbtime.MonthKey(e.LedgerEntryDate)]; ok {
			mp.add(e)
		}
	}

	s.ByCategory = make([]CategoryShare, 0, len(cats))
	for _, cs := range cats {
		whole := s.Totals.Income
		if cs.Kind == string(model.KindExpense) {
			whole = s.Totals.Expense
		}
		cs.Share = helper.Percent(float64(cs.Amount), float64(whole))
		s.ByCategory = append(s.ByCategory, *cs)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		a, b := s.ByCategory[i], s.ByCategory[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Category < b.Category
	})

	s.Monthly = make([]MonthPoint, 0, len(order))
	for _, k := range order {
		s.Monthly = append(s.Monthly, *months[k])
	}
	return s
}

