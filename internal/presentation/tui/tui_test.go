package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/tandem/internal/presentation/tui"
	"github.com/aretw0/tandem/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Lists: [2]domain.ListState{
			{
				Status:   domain.ListReady,
				Items:    []domain.Value{{Code: "a1", Label: "Apple"}, {Code: "a2", Label: "Apricot"}},
				NextPage: domain.PageIndex(1),
			},
			{Status: domain.ListLoading, SearchTerm: "gr", Fault: "connection refused"},
		},
		Selection:        domain.SelectionState{Status: domain.SelectionFirstCommitted, FirstPick: "a2"},
		SecondSelectable: true,
		Message:          &domain.Message{Text: `Values "a1" and "b1" have been mapped`},
	}
}

func TestMarkdown(t *testing.T) {
	md := tui.Markdown(snapshot())

	assert.Contains(t, md, "## List A\n")
	assert.Contains(t, md, "- Apple `a1`")
	assert.Contains(t, md, "- **Apricot** `a2` (selected)")
	assert.Contains(t, md, "`more a` to load more")
	assert.Contains(t, md, "Search: `gr`")
	assert.Contains(t, md, "**Error:** connection refused")
	assert.Contains(t, md, "Picked `a2`")
	assert.Contains(t, md, `> Values "a1" and "b1" have been mapped`)
	assert.NotContains(t, md, "not selectable")
}

func TestMarkdown_SecondListNotSelectable(t *testing.T) {
	s := snapshot()
	s.Selection = domain.SelectionState{Status: domain.SelectionInit}
	s.SecondSelectable = false

	md := tui.Markdown(s)
	assert.Contains(t, md, "## List B *(not selectable)*")
	assert.Contains(t, md, "Pick a value from **A** to start.")
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer(tui.WithStyle("notty"), tui.WithWordWrap(60))
	require.NoError(t, err)

	out, err := render(snapshot())
	require.NoError(t, err)
	assert.Contains(t, out, "Apricot")
	assert.Contains(t, out, "List A")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.GreaterOrEqual(t, strings.Count(buf.String(), "\n"), 5)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, tui.IsTerminal(&bytes.Buffer{}))
	assert.Equal(t, 42, tui.Width(&bytes.Buffer{}, 42))
}
