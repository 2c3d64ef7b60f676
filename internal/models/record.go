package models

// String walks a nested path of object keys and returns the string leaf, if
// one exists there.
func (r Record) String(path ...string) (string, bool) {
	v, ok := r.lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Number returns the numeric leaf at path. JSON decoding yields float64;
// records built in code may carry native ints.
func (r Record) Number(path ...string) (float64, bool) {
	v, ok := r.lookup(path)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Bool returns the boolean leaf at path.
func (r Record) Bool(path ...string) (bool, bool) {
	v, ok := r.lookup(path)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func (r Record) lookup(path []string) (any, bool) {
	var cur any = map[string]any(r)
	for _, key := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	}
	return nil, false
}
