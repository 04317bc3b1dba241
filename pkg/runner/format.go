package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/tandem/pkg/domain"
)

// FormatSnapshot renders a snapshot as plain text: both lists with their
// status, the picked values and the combination message.
func FormatSnapshot(s *domain.Snapshot) (string, error) {
	if s == nil {
		return "", nil
	}

	var b strings.Builder
	for _, r := range domain.Regions {
		formatList(&b, s, r)
	}

	switch s.Selection.Status {
	case domain.SelectionCombining:
		fmt.Fprintf(&b, "Combining %s + %s...\n", s.Selection.FirstPick, s.Selection.SecondPick)
	case domain.SelectionFirstCommitted:
		fmt.Fprintf(&b, "Picked %s, now pick from B.\n", s.Selection.FirstPick)
	}
	if s.Selection.Fault != "" {
		fmt.Fprintf(&b, "Combination failed: %s (retry or cancel)\n", s.Selection.Fault)
	}
	if s.Message != nil {
		fmt.Fprintf(&b, ">> %s\n", s.Message.Text)
	}
	return b.String(), nil
}

func formatList(b *strings.Builder, s *domain.Snapshot, r domain.Region) {
	l := s.List(r)

	header := fmt.Sprintf("List %s", strings.ToUpper(string(r)))
	if l.SearchTerm != "" {
		header += fmt.Sprintf(" (search %q)", l.SearchTerm)
	}
	if !s.Selectable(r) {
		header += " [not selectable]"
	}
	fmt.Fprintln(b, header)

	picked := s.Selection.FirstPick
	if r == domain.RegionB {
		picked = s.Selection.SecondPick
	}
	for _, v := range l.Items {
		marker := " "
		if picked != "" && v.Code == picked {
			marker = "*"
		}
		fmt.Fprintf(b, " %s %s  %s\n", marker, v.Code, v.Label)
	}

	switch {
	case l.Fault != "":
		fmt.Fprintf(b, "   ! %s\n", l.Fault)
	case l.Loading():
		fmt.Fprintln(b, "   loading...")
	case l.LoadingMore():
		fmt.Fprintln(b, "   loading more...")
	case len(l.Items) == 0:
		fmt.Fprintln(b, "   (no values)")
	}
	if l.HasNextPage() && !l.LoadingMore() {
		fmt.Fprintf(b, "   [more %s]\n", r)
	}
}
