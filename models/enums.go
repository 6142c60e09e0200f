// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Every Parse* function below is total: a value the remote store sends that is
// not in the table maps to the documented default instead of failing the row.

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// ParseTransactionType defaults to TransactionExpense.
func ParseTransactionType(s string) TransactionType {
	switch TransactionType(s) {
	case TransactionIncome:
		return TransactionIncome
	default:
		return TransactionExpense
	}
}

// BillFrequency is how often a bill recurs.
type BillFrequency string

const (
	BillOnce      BillFrequency = "once"
	BillWeekly    BillFrequency = "weekly"
	BillMonthly   BillFrequency = "monthly"
	BillQuarterly BillFrequency = "quarterly"
	BillYearly    BillFrequency = "yearly"
)

// ParseBillFrequency defaults to BillMonthly.
func ParseBillFrequency(s string) BillFrequency {
	switch f := BillFrequency(s); f {
	case BillOnce, BillWeekly, BillMonthly, BillQuarterly, BillYearly:
		return f
	default:
		return BillMonthly
	}
}

// BillStatus is the payment state of a bill.
type BillStatus string

const (
	BillPending BillStatus = "pending"
	BillPaid    BillStatus = "paid"
	BillOverdue BillStatus = "overdue"
)

// ParseBillStatus defaults to BillPending.
func ParseBillStatus(s string) BillStatus {
	switch st := BillStatus(s); st {
	case BillPending, BillPaid, BillOverdue:
		return st
	default:
		return BillPending
	}
}

// ClientStatus is the relationship stage of a business client.
type ClientStatus string

const (
	ClientLead     ClientStatus = "lead"
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

// ParseClientStatus defaults to ClientLead.
func ParseClientStatus(s string) ClientStatus {
	switch st := ClientStatus(s); st {
	case ClientLead, ClientActive, ClientInactive:
		return st
	default:
		return ClientLead
	}
}

// QuoteStatus is the lifecycle stage of a quote.
type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

// ParseQuoteStatus defaults to QuoteDraft.
func ParseQuoteStatus(s string) QuoteStatus {
	switch st := QuoteStatus(s); st {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteRejected, QuoteExpired:
		return st
	default:
		return QuoteDraft
	}
}

// LoanKind tells whether the user owes the money or is owed it.
type LoanKind string

const (
	LoanBorrowed LoanKind = "borrowed"
	LoanLent     LoanKind = "lent"
)

// ParseLoanKind defaults to LoanBorrowed.
func ParseLoanKind(s string) LoanKind {
	if LoanKind(s) == LoanLent {
		return LoanLent
	}
	return LoanBorrowed
}

// LoanStatus is the repayment state of a loan.
type LoanStatus string

const (
	LoanActive    LoanStatus = "active"
	LoanPaidOff   LoanStatus = "paid_off"
	LoanDefaulted LoanStatus = "defaulted"
)

// ParseLoanStatus defaults to LoanActive.
func ParseLoanStatus(s string) LoanStatus {
	switch st := LoanStatus(s); st {
	case LoanActive, LoanPaidOff, LoanDefaulted:
		return st
	default:
		return LoanActive
	}
}

// BudgetPeriod is the window a business budget covers.
type BudgetPeriod string

const (
	BudgetMonthly   BudgetPeriod = "monthly"
	BudgetQuarterly BudgetPeriod = "quarterly"
	BudgetYearly    BudgetPeriod = "yearly"
)

// ParseBudgetPeriod defaults to BudgetMonthly.
func ParseBudgetPeriod(s string) BudgetPeriod {
	switch p := BudgetPeriod(s); p {
	case BudgetMonthly, BudgetQuarterly, BudgetYearly:
		return p
	default:
		return BudgetMonthly
	}
}

// Icon is a UI-library independent symbol name attached to categories and
// savings goals.
type Icon string

// IconDefault is used for every icon key the lookup table does not know.
const IconDefault Icon = "circle"

// iconTable maps remote icon keys (including legacy aliases) to icons.
var iconTable = map[string]Icon{
	"circle":        IconDefault,
	"home":          "home",
	"house":         "home",
	"car":           "car",
	"transport":     "car",
	"food":          "utensils",
	"utensils":      "utensils",
	"groceries":     "shopping-cart",
	"shopping-cart": "shopping-cart",
	"shopping":      "shopping-bag",
	"shopping-bag":  "shopping-bag",
	"health":        "heart",
	"heart":         "heart",
	"education":     "book",
	"book":          "book",
	"travel":        "plane",
	"plane":         "plane",
	"gift":          "gift",
	"entertainment": "film",
	"film":          "film",
	"utilities":     "zap",
	"zap":           "zap",
	"salary":        "briefcase",
	"briefcase":     "briefcase",
	"investment":    "trending-up",
	"trending-up":   "trending-up",
	"savings":       "piggy-bank",
	"piggy-bank":    "piggy-bank",
	"target":        "target",
	"phone":         "smartphone",
	"smartphone":    "smartphone",
	"other":         IconDefault,
}

// ParseIcon resolves a remote icon key through the lookup table. Unknown or
// empty keys resolve to IconDefault.
func ParseIcon(s string) Icon {
	if icon, ok := iconTable[s]; ok {
		return icon
	}
	return IconDefault
}
