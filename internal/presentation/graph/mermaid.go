package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tandem/pkg/domain"
)

type transition struct {
	from, to, label string
}

var listTransitions = []transition{
	{"[*]", string(domain.ListLoading), "create"},
	{string(domain.ListLoading), string(domain.ListReady), "fetch ok"},
	{string(domain.ListLoading), string(domain.ListLoading), "fetch failed / search"},
	{string(domain.ListReady), string(domain.ListLoading), "search"},
	{string(domain.ListReady), string(domain.ListLoadingMore), "load_more [nextPage]"},
	{string(domain.ListLoadingMore), string(domain.ListReady), "fetch ok (append)"},
	{string(domain.ListLoadingMore), string(domain.ListLoading), "search"},
}

var selectionTransitions = []transition{
	{"[*]", string(domain.SelectionInit), ""},
	{string(domain.SelectionInit), string(domain.SelectionAwaitingFirst), "pick_first"},
	{string(domain.SelectionFirstCommitted), string(domain.SelectionAwaitingFirst), "pick_first"},
	{string(domain.SelectionAwaitingFirst), string(domain.SelectionFirstCommitted), ""},
	{string(domain.SelectionFirstCommitted), string(domain.SelectionAwaitingSecond), "pick_second"},
	{string(domain.SelectionAwaitingSecond), string(domain.SelectionCombining), ""},
	{string(domain.SelectionCombining), string(domain.SelectionInit), "combine ok"},
	{string(domain.SelectionCombining), string(domain.SelectionFirstCommitted), "combine failed"},
	{string(domain.SelectionFirstCommitted), string(domain.SelectionCombining), "retry_combine"},
	{string(domain.SelectionFirstCommitted), string(domain.SelectionInit), "cancel_selection"},
}

// GenerateMermaid produces a Mermaid state diagram of the three concurrent
// regions. Transient selection states are drawn as choice points. When snap is
// not nil, the current status of every region is highlighted.
func GenerateMermaid(snap *domain.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	sb.WriteString("    state Coordinator {\n")

	for _, r := range domain.Regions {
		name := regionName(r)
		fmt.Fprintf(&sb, "        state %s {\n", name)
		writeTransitions(&sb, name, listTransitions)
		sb.WriteString("        }\n")
		sb.WriteString("        --\n")
	}

	sb.WriteString("        state Selection {\n")
	fmt.Fprintf(&sb, "            state %s <<choice>>\n", stateID("Selection", string(domain.SelectionAwaitingFirst)))
	fmt.Fprintf(&sb, "            state %s <<choice>>\n", stateID("Selection", string(domain.SelectionAwaitingSecond)))
	writeTransitions(&sb, "Selection", selectionTransitions)
	sb.WriteString("        }\n")
	sb.WriteString("    }\n")

	if snap != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, r := range domain.Regions {
			fmt.Fprintf(&sb, "    class %s current\n", stateID(regionName(r), string(snap.List(r).Status)))
		}
		fmt.Fprintf(&sb, "    class %s current\n", stateID("Selection", string(snap.Selection.Status)))
	}

	return sb.String()
}

func writeTransitions(sb *strings.Builder, region string, ts []transition) {
	for _, t := range ts {
		from, to := stateID(region, t.from), stateID(region, t.to)
		if t.label == "" {
			fmt.Fprintf(sb, "            %s --> %s\n", from, to)
			continue
		}
		fmt.Fprintf(sb, "            %s --> %s: %s\n", from, to, t.label)
	}
}

func regionName(r domain.Region) string {
	return "List" + strings.ToUpper(string(r))
}

// stateID namespaces a status by region; Mermaid state IDs are global.
func stateID(region, status string) string {
	if status == "[*]" {
		return status
	}
	return sanitizeMermaidID(region + "_" + status)
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
