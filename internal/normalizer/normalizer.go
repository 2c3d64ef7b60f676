package normalizer

import (
	"strings"

	"github.com/upandey0/eval-sys/internal/models"
)

// enumPaths are the analysis fields whose string values are canonicalized to
// lower case. Everything else passes through untouched.
var enumPaths = [][]string{
	{models.FieldAccuracy},
	{models.FieldChatCompleted},
	{models.FieldLatency},
	{models.GroupEscalation, models.FieldEscalated},
	{models.GroupIssueStatus, models.FieldStatus},
	{models.GroupNecessity, models.FieldNecessary},
	{models.GroupTone, models.FieldTone},
	{models.GroupSentiment, models.FieldSentiment},
	{models.GroupConvQuality, models.FieldRating},
	{models.GroupRespQuality, models.FieldClear},
	{models.GroupRespQuality, models.FieldConcise},
	{models.GroupRespQuality, models.FieldUnderstandable},
	{models.GroupRespQuality, models.FieldRelevant},
	{models.GroupRespQuality, models.FieldOverallQuality},
}

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize is the typed form of the package function for analysis records.
func (*Normalizer) Normalize(rec models.Record) models.Record {
	out, _ := Normalize(rec).(models.Record)
	return out
}

// Normalize returns v with every recognized enum field lower-cased. The
// input is never mutated; objects are copied only along changed paths.
// Non-record inputs and non-string values at enum paths pass through
// unchanged, and no field is ever added or dropped.
func Normalize(v any) any {
	root, ok := toMap(v)
	if !ok {
		return v
	}

	out := root
	changed := false
	for _, path := range enumPaths {
		next, ch := lowered(out, path)
		out = next
		changed = changed || ch
	}
	if !changed {
		return v
	}
	if _, isRecord := v.(models.Record); isRecord {
		return models.Record(out)
	}
	return out
}

// lowered returns m with the string at path lower-cased. The second result
// reports whether anything changed; when it did, m itself is left intact and
// the returned map shares all untouched values.
func lowered(m map[string]any, path []string) (map[string]any, bool) {
	key := path[0]
	cur, ok := m[key]
	if !ok {
		return m, false
	}

	if len(path) == 1 {
		s, ok := cur.(string)
		if !ok {
			return m, false
		}
		low := strings.ToLower(s)
		if low == s {
			return m, false
		}
		next := cloneShallow(m)
		next[key] = low
		return next, true
	}

	child, ok := toMap(cur)
	if !ok {
		return m, false
	}
	newChild, ch := lowered(child, path[1:])
	if !ch {
		return m, false
	}
	next := cloneShallow(m)
	next[key] = newChild
	return next, true
}

func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case models.Record:
		return m, true
	}
	return nil, false
}

func cloneShallow(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
