package domain

import "sort"

type Category string

func (c Category) String() string {
	return string(c)
}

const (
	CategoryTravel Category = "travel"
	CategoryFood   Category = "food"
	CategoryFun    Category = "fun"
)

// Categories is the fixed processing order used by both pipeline stages.
var Categories = []Category{
	CategoryTravel,
	CategoryFood,
	CategoryFun,
}

// DefaultImageCap applies to categories without an explicit cap.
const DefaultImageCap = 1

func (c Category) IsKnown() bool {
	switch c {
	case CategoryTravel, CategoryFood, CategoryFun:
		return true
	default:
		return false
	}
}

// MaxImages returns the built-in number of accepted images kept per entry.
func (c Category) MaxImages() int {
	switch c {
	case CategoryTravel:
		return 3
	case CategoryFun:
		return 2
	case CategoryFood:
		return 1
	default:
		return DefaultImageCap
	}
}

// OrderedCategories returns the fixed categories followed by any other
// categories present in names, sorted.
func OrderedCategories(names []Category) []Category {
	ordered := make([]Category, 0, len(Categories)+len(names))
	ordered = append(ordered, Categories...)

	extra := make([]Category, 0)
	seen := make(map[Category]bool)
	for _, name := range names {
		if name.IsKnown() || seen[name] {
			continue
		}
		seen[name] = true
		extra = append(extra, name)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(ordered, extra...)
}
