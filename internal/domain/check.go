package domain

// Source of a check record.
type CheckSource string

const (
	CheckSourceVerify        CheckSource = "VERIFY"
	CheckSourceConfirmClosed CheckSource = "CONFIRM_CLOSED"
	CheckSourceWatch         CheckSource = "WATCH"
)

// CheckRecord is the outcome of validating a sale account against an expected state.
type CheckRecord struct {
	CheckID     string      // deterministic hash, see idhash.ComputeCheckID
	SaleAccount string      // sale state account address
	Source      CheckSource // which operation produced the check
	Slot        int64       // context slot of the read
	CheckedAt   int64       // unix ms
	Passed      bool
	Checked     int    // number of fields compared
	Failed      int    // number of diverging fields
	Field       string // first failing field, empty when passed
	Expected    string // expected value of Field
	Actual      string // stored value of Field
	Error       string // joined error text, empty when passed
}
