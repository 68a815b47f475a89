package models

import "slices"

// History is an ordered collection of notification records.
type History []NotificationRecord

// Newest returns the most recently posted record. ok is false for an empty history.
func (h History) Newest() (NotificationRecord, bool) {
	if len(h) == 0 {
		return NotificationRecord{}, false
	}
	newest := h[0]
	for _, r := range h[1:] {
		if r.Posted.After(newest.Posted) {
			newest = r
		}
	}
	return newest, true
}

// Merge returns fetched followed by every cached record whose ID the fetch did
// not return. Duplicate IDs inside fetched keep their first occurrence.
func Merge(cached, fetched History) History {
	seen := make(map[string]struct{}, len(cached)+len(fetched))
	merged := make(History, 0, len(cached)+len(fetched))
	for _, src := range []History{fetched, cached} {
		for _, r := range src {
			if _, ok := seen[r.ID]; ok {
				continue
			}
			seen[r.ID] = struct{}{}
			merged = append(merged, r)
		}
	}
	return merged
}

// SortNewestFirst orders records by Posted descending. Records posted at the
// same instant keep their relative order.
func SortNewestFirst(h History) {
	slices.SortStableFunc(h, func(a, b NotificationRecord) int {
		return b.Posted.Compare(a.Posted)
	})
}
