package core

import "strings"

// OverallName is the presentation name of the synthetic overall category.
const OverallName = "overall"

// UncategorizedName is the reserved bucket for records without a category.
const UncategorizedName = "uncategorized"

// Category identifies either a named emission category or the synthetic
// overall aggregate. The overall flag keeps the aggregate distinct from a
// real category that happens to be named "overall".
type Category struct {
	name    string
	overall bool
}

// Overall returns the synthetic aggregate category.
func Overall() Category {
	return Category{overall: true}
}

// CategoryOf returns the category for name. Whitespace is trimmed; an empty
// name maps to the reserved uncategorized bucket.
func CategoryOf(name string) Category {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{name: UncategorizedName}
	}
	return Category{name: name}
}

// IsOverall reports whether c is the synthetic aggregate.
func (c Category) IsOverall() bool {
	return c.overall
}

// Name returns the presentation name of the category.
func (c Category) Name() string {
	if c.overall {
		return OverallName
	}
	return c.name
}

func (c Category) String() string {
	return c.Name()
}

// MarshalText makes categories usable as JSON map keys and values.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Name()), nil
}
