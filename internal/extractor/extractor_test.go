package extractor

import (
	"strings"
	"testing"

	"letluckdecide/enricher/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `// generated by hand, do not lint
const DATA = {
  travel: {
    title: "Where to?",
    europe: {
      pool: [
        { label: "Paris", weight: 2 },
        { label: " Rome ", tags: ["city", "history"] },
        { label: "Café São Paulo" },
      ],
    },
    pick: function () { return { pool: [] }; },
  },
  food: {
    quick: { pool: [ { label: "Pizza" }, { label: "Sushi" } ] },
    slow: { pool: [ { label: "Pizza" }, { label: "Ramen", extra: { label: "Tonkotsu" } } ] },
  },
  fun: {
    outdoors: { pool: [ { label: "Paris" }, { label: "paris" }, { label: "Paris" } ] },
    sublabel: "not in a pool",
  },
};
export default DATA;
`

func TestFindCloseNested(t *testing.T) {
	text := "x{a{b{c}d}e}y"

	end, ok := FindClose(text, 1, Braces)
	require.True(t, ok)
	assert.Equal(t, 11, end)

	inner, ok := Inner(text, 1, Braces)
	require.True(t, ok)
	assert.Equal(t, "a{b{c}d}e", inner)
}

func TestFindCloseDeepNesting(t *testing.T) {
	depth := 500
	text := strings.Repeat("[", depth) + "core" + strings.Repeat("]", depth)

	inner, ok := Inner(text, 0, Brackets)
	require.True(t, ok)
	assert.Equal(t, text[1:len(text)-1], inner)
}

func TestFindCloseIgnoresOtherDelimiters(t *testing.T) {
	text := `[{ "a": "}" }, [1, 2]] tail`

	end, ok := FindClose(text, 0, Brackets)
	require.True(t, ok)
	assert.Equal(t, strings.Index(text, " tail")-1, end)
}

func TestFindCloseUnbalancedTerminates(t *testing.T) {
	text := "{ { { never closed }"

	end, ok := FindClose(text, 0, Braces)
	assert.False(t, ok)
	assert.Equal(t, len(text), end)

	inner, ok := Inner(text, 0, Braces)
	assert.False(t, ok)
	assert.Equal(t, text[1:], inner)
}

func TestExtract(t *testing.T) {
	labels := New(domain.Categories).Extract(sampleSource)

	assert.Equal(t, []string{"Café São Paulo", "Paris", "Rome"}, labels[domain.CategoryTravel])
	assert.Equal(t, []string{"Pizza", "Ramen", "Sushi", "Tonkotsu"}, labels[domain.CategoryFood])
	assert.Equal(t, []string{"Paris", "paris"}, labels[domain.CategoryFun])
}

func TestExtractCategoryWithoutPools(t *testing.T) {
	source := `{ travel: { title: "none here" }, food: { pool: [ { label: "Tacos" } ] } }`

	labels := New(domain.Categories).Extract(source)

	require.Contains(t, labels, domain.CategoryTravel)
	assert.Empty(t, labels[domain.CategoryTravel])
	assert.Equal(t, []string{"Tacos"}, labels[domain.CategoryFood])
	assert.Empty(t, labels[domain.CategoryFun])
}

func TestExtractUnbalancedFinalCategory(t *testing.T) {
	source := `food: { a: { pool: [ { label: "Soup" } ] }, b: { pool: [ { label: "Stew" }`

	labels := New(domain.Categories).Extract(source)

	assert.Equal(t, []string{"Soup", "Stew"}, labels[domain.CategoryFood])
}

func TestExtractRepeatedCategoryMarkersMerge(t *testing.T) {
	source := `fun: { pool: [ { label: "Karaoke" } ] }, travel: { pool: [] }, fun: { pool: [ { label: "Bowling" }, { label: "Karaoke" } ] }`

	labels := New(domain.Categories).Extract(source)

	assert.Equal(t, []string{"Bowling", "Karaoke"}, labels[domain.CategoryFun])
	assert.Empty(t, labels[domain.CategoryTravel])
}

func TestExtractIsDeterministic(t *testing.T) {
	ex := New(domain.Categories)
	assert.Equal(t, ex.Extract(sampleSource), ex.Extract(sampleSource))
}

func TestExtractIgnoresLabelsOutsidePools(t *testing.T) {
	source := `travel: { pool: [{ label: "Paris" }], featured: { label: "Not pooled" }, pool: [{ label: "Rome" }] }`

	labels := New(domain.Categories).Extract(source)
	assert.Equal(t, []string{"Paris", "Rome"}, labels[domain.CategoryTravel])
}

func TestExtractUnbalancedPoolReadsToSectionEnd(t *testing.T) {
	source := `food: { pool: [{ label: "Pizza" }, { label: "Pasta" }`

	labels := New(domain.Categories).Extract(source)
	assert.Equal(t, []string{"Pasta", "Pizza"}, labels[domain.CategoryFood])
}
