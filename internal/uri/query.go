package uri

import "strings"

type Pair struct {
	Key, Value string
}

// Query keeps pairs in the order they appeared. Keys are not deduplicated
// and values are not unescaped.
type Query []Pair

func ParseQuery(s string) Query {
	tokens := strings.Split(s, "&")
	q := make(Query, 0, len(tokens))
	for _, tok := range tokens {
		k, v, _ := strings.Cut(tok, "=")
		q = append(q, Pair{k, v})
	}
	return q
}

// Get returns the value of the first pair named key.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

func (q Query) Values(key string) []string {
	var vs []string
	for _, p := range q {
		if p.Key == key {
			vs = append(vs, p.Value)
		}
	}
	return vs
}
