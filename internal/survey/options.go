package survey

import (
	"fmt"
	"slices"
)

// Bucket is one price shape: every driver code listed maps to Options.
type Bucket struct {
	Name    string
	Codes   []string
	Options []string
}

// BucketTable picks a dependent question's options by classifying the driver answer.
type BucketTable struct {
	DriverID string
	Buckets  []Bucket
	Default  []string
}

// Classify returns the option list for a driver value. Matching is exact after all
// whitespace is stripped; an unmatched or empty value gets the default list.
func (t BucketTable) Classify(value string) []string {
	v := stripSpaces(value)
	if v != "" {
		for _, b := range t.Buckets {
			if slices.Contains(b.Codes, v) {
				return slices.Clone(b.Options)
			}
		}
	}
	return slices.Clone(t.Default)
}

// Options wraps the table as derived options for the dependent question.
func (t BucketTable) Options() Options {
	return Derived(func(a Answers) []string {
		return t.Classify(a[t.DriverID])
	})
}

// LookupBucketTable returns a built-in table by name.
func LookupBucketTable(name string) (BucketTable, error) {
	switch name {
	case "budget-tiers":
		return BudgetTiers, nil
	}
	return BucketTable{}, fmt.Errorf("unknown option table %q", name)
}

// BudgetTiers maps a mattress size to the budget choices offered for it.
var BudgetTiers = BucketTable{
	DriverID: "size",
	Buckets: []Bucket{
		{
			Name:    "small",
			Codes:   []string{"80*190", "90*190", "80*200", "90*200"},
			Options: []string{"до 5000грн.", "можна і більше 5000грн.", "можна і більше 10000грн."},
		},
		{
			Name:    "mid",
			Codes:   []string{"120*190", "120*200", "140*190", "140*200"},
			Options: []string{"до 5000грн.", "5000-8000грн.", "можна і більше 10000грн."},
		},
		{
			Name:    "mid-large",
			Codes:   []string{"160*200", "160*190", "150*200", "150*190"},
			Options: []string{"5200-6500грн.", "6500-9000грн.", "9000-15000грн.", "можна і більше 15000грн"},
		},
		{
			Name:    "large",
			Codes:   []string{"180*200", "180*190", "200*200"},
			Options: []string{"від 6500-8500грн.", "від 8500-11000грн.", "від 12000-17000грн.", "можна і більше 17000грн."},
		},
	},
	Default: []string{"до 5000грн.", "5000-8000грн.", "9000-15000грн.", "можна і більше 15000грн"},
}
