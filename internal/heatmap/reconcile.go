// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package heatmap

// Diff is the change set between two record sets, keyed by Record.Key.
type Diff struct {
	// Insert holds records whose key was not present before, in next order.
	Insert []Record
	// Update holds the new version of records whose key was already present,
	// in next order.
	Update []Record
	// Delete holds keys that are no longer present, in previous order.
	Delete []string
}

// Empty reports whether the diff changes nothing.
func (d Diff) Empty() bool {
	return len(d.Insert) == 0 && len(d.Update) == 0 && len(d.Delete) == 0
}

// Reconcile computes the changes that turn prev into next. When records in
// next share a key, the first one is kept and the rest are dropped.
func Reconcile(prev, next []Record) Diff {
	next = dedupe(next)

	before := make(map[string]struct{}, len(prev))
	for _, r := range prev {
		before[r.Key()] = struct{}{}
	}
	after := make(map[string]struct{}, len(next))

	var d Diff
	for _, r := range next {
		k := r.Key()
		after[k] = struct{}{}
		if _, ok := before[k]; ok {
			d.Update = append(d.Update, r)
		} else {
			d.Insert = append(d.Insert, r)
		}
	}
	for _, r := range prev {
		k := r.Key()
		if _, ok := after[k]; !ok {
			d.Delete = append(d.Delete, k)
			// A key can only be deleted once.
			after[k] = struct{}{}
		}
	}
	return d
}

func dedupe(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		k := r.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
