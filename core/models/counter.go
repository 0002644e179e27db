package models

import "sort"

// Counter maps a component tag or module name to how many times it was
// observed. Counts only ever grow.
type Counter map[string]int

func NewCounter() Counter {
	return make(Counter)
}

// Seed registers key with a zero count unless it is already present.
func (c Counter) Seed(key string) {
	if _, ok := c[key]; !ok {
		c[key] = 0
	}
}

func (c Counter) Inc(key string) int {
	c[key]++
	return c[key]
}

// Add increases key by n. Negative values are ignored.
func (c Counter) Add(key string, n int) {
	if n < 0 {
		return
	}
	c[key] += n
}

func (c Counter) Has(key string) bool {
	_, ok := c[key]
	return ok
}

func (c Counter) Get(key string) int {
	return c[key]
}

func (c Counter) Merge(other Counter) {
	for k, v := range other {
		c.Add(k, v)
	}
}

func (c Counter) Clone() Counter {
	out := make(Counter, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Keys returns the keys in lexical order.
func (c Counter) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Used returns the keys with a positive count, in lexical order.
func (c Counter) Used() []string {
	var keys []string
	for _, k := range c.Keys() {
		if c[k] > 0 {
			keys = append(keys, k)
		}
	}
	return keys
}
