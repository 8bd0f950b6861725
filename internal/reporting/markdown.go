package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"solana-token-sale/internal/domain"
	"solana-token-sale/internal/instruction"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Token Sale Report\n\n")
	sb.WriteString(fmt.Sprintf("Sale account: `%s`\n\n", r.SaleAccount))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Current state
	sb.WriteString("## Latest State\n\n")
	if r.Latest != nil {
		s := r.Latest
		sb.WriteString("| Field | Value |\n")
		sb.WriteString("|-------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Slot | %d |\n", s.Slot))
		sb.WriteString(fmt.Sprintf("| isInitialized | %d |\n", s.IsInitialized))
		sb.WriteString(fmt.Sprintf("| sellerPubkey | %s |\n", s.Seller))
		sb.WriteString(fmt.Sprintf("| tempTokenAccountPubkey | %s |\n", s.TempTokenAccount))
		sb.WriteString(fmt.Sprintf("| swapSolAmount | %d (%s SOL) |\n", s.PricePerToken, instruction.FormatSOL(s.PricePerToken)))
		sb.WriteString(fmt.Sprintf("| swapTokenAmount | %d |\n", s.MinBuy))
		sb.WriteString(fmt.Sprintf("| Lamports | %d |\n", s.Lamports))
		sb.WriteString(fmt.Sprintf("\nSnapshots stored: %d\n\n", r.SnapshotCount))
	} else {
		sb.WriteString("No snapshots stored.\n\n")
	}

	// Price history
	if len(r.PriceChanges) > 0 {
		sb.WriteString("## Price Changes\n\n")
		sb.WriteString("| Slot | Old (lamports) | New (lamports) |\n")
		sb.WriteString("|------|----------------|----------------|\n")
		for _, p := range r.PriceChanges {
			sb.WriteString(fmt.Sprintf("| %d | %d | %d |\n", p.Slot, p.OldPrice, p.NewPrice))
		}
		sb.WriteString("\n")
	}

	// Checks
	sb.WriteString("## Checks\n\n")
	cs := r.CheckSummary
	if cs.Total == 0 {
		sb.WriteString("No checks recorded.\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Total: %d | Passed: %d | Failed: %d\n\n", cs.Total, cs.Passed, cs.Failed))

	sources := make([]string, 0, len(cs.BySource))
	for src := range cs.BySource {
		sources = append(sources, string(src))
	}
	sort.Strings(sources)
	sb.WriteString("| Source | Checks |\n")
	sb.WriteString("|--------|--------|\n")
	for _, src := range sources {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", src, cs.BySource[domain.CheckSource(src)]))
	}
	sb.WriteString("\n")

	if len(r.FieldFailures) > 0 {
		sb.WriteString("### Diverging Fields\n\n")
		sb.WriteString("| Field | Failed Checks |\n")
		sb.WriteString("|-------|---------------|\n")
		for _, f := range r.FieldFailures {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", f.Field, f.Count))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
