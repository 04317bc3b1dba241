package domain

import (
	"slices"
)

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	ID      string `json:"id"`
	Version uint64 `json:"version"`

	// Lists contains only the regions that changed.
	Lists map[Region]*ListDelta `json:"lists,omitempty"`

	Selection *SelectionState `json:"selection,omitempty"`

	// MessageChanged is set when Message appeared, changed or expired.
	// A nil Message with MessageChanged means the message was cleared.
	MessageChanged bool     `json:"messageChanged,omitempty"`
	Message        *Message `json:"message,omitempty"`

	SecondSelectable *bool `json:"secondSelectable,omitempty"`
}

// ListDelta carries the change of one list region.
// When the region only grew (a page was appended), Appended holds the new
// items. When the items were replaced, Reset is set and Items holds the new
// sequence (possibly empty). Otherwise the items did not change.
type ListDelta struct {
	Status     ListStatus `json:"status"`
	Items      []Value    `json:"items,omitempty"`
	Appended   []Value    `json:"appended,omitempty"`
	Reset      bool       `json:"reset,omitempty"`
	NextPage   *int       `json:"nextPage,omitempty"`
	SearchTerm string     `json:"searchTerm"`
	Fault      string     `json:"fault,omitempty"`
}

// Empty reports whether the diff carries no change.
func (d *SnapshotDiff) Empty() bool {
	return d == nil || (len(d.Lists) == 0 && d.Selection == nil && !d.MessageChanged && d.SecondSelectable == nil)
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}
	if oldSnap == nil {
		oldSnap = &Snapshot{}
	}

	diff := &SnapshotDiff{ID: newSnap.ID, Version: newSnap.Version}

	for i, r := range Regions {
		if delta := diffList(oldSnap.Lists[i], newSnap.Lists[i]); delta != nil {
			if diff.Lists == nil {
				diff.Lists = make(map[Region]*ListDelta)
			}
			diff.Lists[r] = delta
		}
	}

	if oldSnap.Selection != newSnap.Selection {
		sel := newSnap.Selection
		diff.Selection = &sel
	}

	if !sameMessage(oldSnap.Message, newSnap.Message) {
		diff.MessageChanged = true
		if newSnap.Message != nil {
			msg := *newSnap.Message
			diff.Message = &msg
		}
	}

	if oldSnap.SecondSelectable != newSnap.SecondSelectable {
		v := newSnap.SecondSelectable
		diff.SecondSelectable = &v
	}

	if diff.Empty() {
		return nil
	}
	return diff
}

func diffList(old, cur ListState) *ListDelta {
	if old.Status == cur.Status &&
		old.SearchTerm == cur.SearchTerm &&
		old.Fault == cur.Fault &&
		samePage(old.NextPage, cur.NextPage) &&
		slices.Equal(old.Items, cur.Items) {
		return nil
	}

	delta := &ListDelta{
		Status:     cur.Status,
		SearchTerm: cur.SearchTerm,
		Fault:      cur.Fault,
	}
	if cur.NextPage != nil {
		delta.NextPage = PageIndex(*cur.NextPage)
	}

	switch {
	case slices.Equal(old.Items, cur.Items):
	case len(old.Items) > 0 && len(cur.Items) > len(old.Items) && slices.Equal(old.Items, cur.Items[:len(old.Items)]):
		// Append-only growth is the common case (LoadMore).
		delta.Appended = slices.Clone(cur.Items[len(old.Items):])
	default:
		delta.Reset = true
		delta.Items = slices.Clone(cur.Items)
	}
	return delta
}

func samePage(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameMessage(a, b *Message) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Text == b.Text && a.ExpiresAt.Equal(b.ExpiresAt)
}
