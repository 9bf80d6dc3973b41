package analyzer

import (
	"math"
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"star-erd/internal/schema"
)

// Suggestion 未匹配键列的候选维度（仅用于提示，不产生关系）
type Suggestion struct {
	Column      string
	Dimension   string
	ExpectedKey string
	Similarity  float64
}

// SuggestDimensions 为未匹配的 *_key 列找出最接近的维度期望键名
func (r *RelationshipInferer) SuggestDimensions(column string) (Suggestion, bool) {
	best := Suggestion{Column: column}
	for _, dim := range r.dims {
		expected := ExpectedKeyName(dim.Name)
		score := nameSimilarity(column, expected)
		if score > best.Similarity {
			best.Dimension = dim.Name
			best.ExpectedKey = expected
			best.Similarity = score
		}
	}
	return best, best.Dimension != ""
}

// Hints 汇总一张事实表所有未匹配键列的提示，按列名排序
func (r *RelationshipInferer) Hints(table *schema.Table) []Suggestion {
	var out []Suggestion
	for _, col := range r.Unmatched(table) {
		if s, ok := r.SuggestDimensions(col); ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Column < out[j].Column })
	return out
}

// nameSimilarity 比较列名与期望键名；也比较去掉前缀后的尾部，
// 例如 originating_usr_key 与 user_key
func nameSimilarity(column, expected string) float64 {
	c := strings.ToLower(column)
	e := strings.ToLower(expected)

	score := similarity(c, e)
	if n := strings.Count(e, "_") + 1; n < strings.Count(c, "_")+1 {
		parts := strings.Split(c, "_")
		tail := strings.Join(parts[len(parts)-n:], "_")
		score = math.Max(score, similarity(tail, e))
	}
	if score > 0.7 {
		return score
	}
	return 0
}

func similarity(a, b string) float64 {
	maxLen := math.Max(float64(len(a)), float64(len(b)))
	if maxLen == 0 {
		return 0
	}
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	return 1.0 - float64(distance)/maxLen
}
