package model

// check.go — shared building blocks for the per-layer validators.

import (
	"fmt"
	"slices"
)

// firstDuplicate returns the first key that occurs more than once, in
// input order.
func firstDuplicate[K comparable](keys []K) (K, bool) {
	seen := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			return k, true
		}
		seen[k] = struct{}{}
	}
	var zero K
	return zero, false
}

// set builds a membership index once per validation pass.
func set[K comparable](keys []K) map[K]struct{} {
	m := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

func has[K comparable](m map[K]struct{}, k K) bool {
	_, ok := m[k]
	return ok
}

func uniqueOrFinding[K comparable](keys []K, scope, subject string) error {
	if dup, ok := firstDuplicate(keys); ok {
		return newFinding(KindDuplicateIdentifier, scope, subject, dup, "")
	}
	return nil
}

// pairKey is an unordered pair of names, canonicalised so that (A,B) and
// (B,A) compare equal.
type pairKey struct{ a, b string }

func canonicalPair(x, y string) pairKey {
	if y < x {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// findInheritanceCycle walks parent links from every start name in order.
// It returns the first name revisited on the current path.
func findInheritanceCycle(starts []string, parent map[string]string) (string, bool) {
	done := make(map[string]bool, len(parent))
	for _, s := range starts {
		if done[s] {
			continue
		}
		path := map[string]bool{}
		cur, ok := s, true
		for ok {
			if path[cur] {
				return cur, true
			}
			if done[cur] {
				break
			}
			path[cur] = true
			cur, ok = parent[cur]
		}
		for name := range path {
			done[name] = true
		}
	}
	return "", false
}

// ancestors returns name followed by its superclass chain. parent must be
// acyclic.
func ancestors(name string, parent map[string]string) []string {
	out := []string{name}
	for {
		p, ok := parent[name]
		if !ok || slices.Contains(out, p) {
			return out
		}
		out = append(out, p)
		name = p
	}
}

func scopef(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
