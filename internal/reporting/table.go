package reporting

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"solana-token-sale/internal/domain"
	"solana-token-sale/internal/instruction"
	"solana-token-sale/internal/monitor"
	"solana-token-sale/internal/sale"
	"solana-token-sale/internal/solana"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

// WriteAccountTable prints the decoded fields of a sale account.
func WriteAccountTable(w io.Writer, insp *monitor.Inspection) {
	t := newTable(w, "Field", "Value")
	t.Append([]string{"address", insp.Address.String()})
	t.Append([]string{"slot", strconv.FormatInt(insp.Slot, 10)})
	t.Append([]string{"lamports", strconv.FormatUint(insp.Lamports, 10)})

	if acc := insp.Account; acc != nil {
		raw := acc.RawFields()
		for _, f := range sale.Fields() {
			t.Append([]string{f.String(), formatField(f, raw[f])})
		}
		t.Append([]string{"price (SOL)", instruction.FormatSOL(acc.PricePerToken())})
		t.Append([]string{"active", strconv.FormatBool(acc.Active())})
	}
	t.Render()
}

func formatField(f sale.Field, raw []byte) string {
	switch f.Kind() {
	case sale.KindPublicKey:
		pk, err := solana.PublicKeyFromBytes(raw)
		if err != nil {
			return hex.EncodeToString(raw)
		}
		return pk.String()
	default:
		var v uint64
		for i := len(raw) - 1; i >= 0; i-- {
			v = v<<8 | uint64(raw[i])
		}
		return strconv.FormatUint(v, 10)
	}
}

// WriteBalanceTable prints SOL and token balances.
func WriteBalanceTable(w io.Writer, balances []monitor.Balance) {
	t := newTable(w, "Account", "Address", "SOL", "Tokens")
	for _, b := range balances {
		tokens := "-"
		if b.Token != nil {
			tokens = b.Token.UIAmountString
			if tokens == "" {
				tokens = strconv.FormatUint(b.Token.Amount, 10)
			}
		}
		t.Append([]string{b.Name, b.Address.String(), instruction.FormatSOL(b.Lamports), tokens})
	}
	t.Render()
}

// WriteCheckTable prints check records, newest last.
func WriteCheckTable(w io.Writer, checks []*domain.CheckRecord) {
	t := newTable(w, "Checked At", "Source", "Slot", "Result", "Fields", "First Divergence")
	for _, c := range checks {
		result := "PASS"
		if !c.Passed {
			result = "FAIL"
		}
		divergence := ""
		switch {
		case c.Field != "":
			divergence = fmt.Sprintf("%s: expected %s, got %s", c.Field, c.Expected, c.Actual)
		case c.Error != "":
			divergence = c.Error
		}
		t.Append([]string{
			time.UnixMilli(c.CheckedAt).UTC().Format(time.RFC3339),
			string(c.Source),
			strconv.FormatInt(c.Slot, 10),
			result,
			fmt.Sprintf("%d/%d", c.Checked-c.Failed, c.Checked),
			divergence,
		})
	}
	t.Render()
}

// WriteInstructionTable prints the ordered account list of an instruction.
// labels name the accounts by position; missing labels are left blank.
func WriteInstructionTable(w io.Writer, ix solana.Instruction, labels []string) {
	fmt.Fprintf(w, "program: %s\ndata:    %s\n", ix.Program, hex.EncodeToString(ix.Data))

	t := newTable(w, "#", "Account", "Address", "Signer", "Writable")
	for i, a := range ix.Accounts {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		t.Append([]string{
			strconv.Itoa(i),
			label,
			a.PublicKey.String(),
			strconv.FormatBool(a.IsSigner),
			strconv.FormatBool(a.IsWritable),
		})
	}
	t.Render()
}
