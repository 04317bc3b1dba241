package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/tandem/pkg/domain"
)

// Markdown renders a snapshot as a markdown document: one section per list
// and a status line for the selection.
func Markdown(s *domain.Snapshot) string {
	if s == nil {
		return ""
	}

	var b strings.Builder
	for _, r := range domain.Regions {
		writeList(&b, s, r)
	}

	b.WriteString("---\n\n")
	switch s.Selection.Status {
	case domain.SelectionCombining:
		fmt.Fprintf(&b, "*Combining* `%s` + `%s`...\n\n", s.Selection.FirstPick, s.Selection.SecondPick)
	case domain.SelectionFirstCommitted:
		fmt.Fprintf(&b, "Picked `%s`. Now pick a value from **B**.\n\n", s.Selection.FirstPick)
	default:
		b.WriteString("Pick a value from **A** to start.\n\n")
	}
	if s.Selection.Fault != "" {
		fmt.Fprintf(&b, "> **Combination failed:** %s. Type `retry` or `cancel`.\n\n", s.Selection.Fault)
	}
	if s.Message != nil {
		fmt.Fprintf(&b, "> %s\n\n", s.Message.Text)
	}
	return b.String()
}

func writeList(b *strings.Builder, s *domain.Snapshot, r domain.Region) {
	l := s.List(r)

	fmt.Fprintf(b, "## List %s", strings.ToUpper(string(r)))
	if !s.Selectable(r) {
		b.WriteString(" *(not selectable)*")
	}
	b.WriteString("\n\n")
	if l.SearchTerm != "" {
		fmt.Fprintf(b, "Search: `%s`\n\n", l.SearchTerm)
	}

	picked := s.Selection.FirstPick
	if r == domain.RegionB {
		picked = s.Selection.SecondPick
	}
	for _, v := range l.Items {
		if picked != "" && v.Code == picked {
			fmt.Fprintf(b, "- **%s** `%s` (selected)\n", v.Label, v.Code)
			continue
		}
		fmt.Fprintf(b, "- %s `%s`\n", v.Label, v.Code)
	}
	if len(l.Items) > 0 {
		b.WriteString("\n")
	}

	switch {
	case l.Fault != "":
		fmt.Fprintf(b, "**Error:** %s\n\n", l.Fault)
	case l.Loading():
		b.WriteString("*Loading...*\n\n")
	case l.LoadingMore():
		b.WriteString("*Loading more...*\n\n")
	case len(l.Items) == 0:
		b.WriteString("*No values.*\n\n")
	}
	if l.HasNextPage() && !l.LoadingMore() {
		fmt.Fprintf(b, "`more %s` to load more\n\n", r)
	}
}
