package squirrel

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// SelectorMap maps user-chosen field names to CSS selectors.
type SelectorMap map[string]string

// Validate returns an error if any field name is empty.
func (m SelectorMap) Validate() error {
	for name := range m {
		if strings.TrimSpace(name) == "" {
			return Errorf(EINVALID, "selector field name required")
		}
	}
	return nil
}

// Names returns the field names in sorted order.
func (m SelectorMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns the JSON encoding of the map, or "" when it is empty.
func (m SelectorMap) String() string {
	if len(m) == 0 {
		return ""
	}
	b, err := marshalJSON(map[string]string(m))
	if err != nil {
		return ""
	}
	return string(b)
}

// ParseSelectorMap decodes the JSON produced by SelectorMap.String.
// An empty string yields a nil map.
func ParseSelectorMap(s string) (SelectorMap, error) {
	if s == "" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, Errorf(EINVALID, "invalid selectors: %v", err)
	}
	return SelectorMap(m), nil
}

// ParseSelectorPairs builds a SelectorMap from "name=selector" pairs.
func ParseSelectorPairs(pairs []string) (SelectorMap, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := make(SelectorMap, len(pairs))
	for _, pair := range pairs {
		name, selector, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, Errorf(EINVALID, "invalid selector %q: expected name=selector", pair)
		}
		if _, dup := m[name]; dup {
			return nil, Errorf(EINVALID, "duplicate selector name %q", name)
		}
		m[name] = selector
	}
	return m, nil
}

// FormatSelectors renders the map as "name: selector" lines in name order.
func FormatSelectors(m SelectorMap) string {
	var b strings.Builder
	for _, name := range m.Names() {
		fmt.Fprintf(&b, "%s: %s\n", name, m[name])
	}
	return strings.TrimSuffix(b.String(), "\n")
}
