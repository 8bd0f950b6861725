package reporting

import (
	"fmt"
	"strings"

	"solana-token-sale/internal/domain"
)

// RenderCSV renders check records as CSV string.
func RenderCSV(checks []*domain.CheckRecord) string {
	var sb strings.Builder

	// Header
	sb.WriteString("check_id,sale_account,source,slot,checked_at,passed,checked,failed,field,expected,actual\n")

	// Rows
	for _, c := range checks {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%d,%d,%t,%d,%d,%s,%s,%s\n",
			c.CheckID,
			c.SaleAccount,
			c.Source,
			c.Slot,
			c.CheckedAt,
			c.Passed,
			c.Checked,
			c.Failed,
			csvField(c.Field),
			csvField(c.Expected),
			csvField(c.Actual),
		))
	}

	return sb.String()
}

func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
