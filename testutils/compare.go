package testutils

import (
	"reflect"
	"sort"
	"testing"
)

// Compare fails the test if slices aren't equal and prints elements that are present only in one of them
func Compare(t *testing.T, got, want []string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
		t.Errorf("difference %q", Difference(got, want))
	}
}

// CompareMapKeys checks that keys of the map are exactly the given paths
func CompareMapKeys[V any](t *testing.T, m map[string]V, want []string) {
	t.Helper()
	got := make([]string, 0, len(m))
	for k := range m {
		got = append(got, k)
	}
	w := append([]string{}, want...)
	sort.Strings(got)
	sort.Strings(w)
	Compare(t, got, w)
}

// Difference between two slices
func Difference(slice1, slice2 []string) []string {
	diff := []string{}
	m := map[string]int{}

	for _, v := range slice1 {
		m[v] = 1
	}
	for _, v := range slice2 {
		m[v] = m[v] + 1
	}

	for k, v := range m {
		if v == 1 {
			diff = append(diff, k)
		}
	}
	sort.Strings(diff)

	return diff
}
