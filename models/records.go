// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Transaction is a single income or expense entry.
type Transaction struct {
	ID            string          `json:"id"`
	Workspace     Workspace       `json:"workspace"`
	Type          TransactionType `json:"type"`
	Amount        float64         `json:"amount"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
	Recurring     bool            `json:"recurring"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (t Transaction) RecordID() string { return t.ID }

// Bill is a recurring or one-off payment obligation.
type Bill struct {
	ID        string        `json:"id"`
	Workspace Workspace     `json:"workspace"`
	Name      string        `json:"name"`
	Amount    float64       `json:"amount"`
	DueDate   time.Time     `json:"dueDate"`
	Frequency BillFrequency `json:"frequency"`
	Status    BillStatus    `json:"status"`
	Category  string        `json:"category"`
	AutoPay   bool          `json:"autoPay"`
}

func (b Bill) RecordID() string { return b.ID }

// SavingsGoal tracks progress towards a target amount.
type SavingsGoal struct {
	ID            string     `json:"id"`
	Workspace     Workspace  `json:"workspace"`
	Name          string     `json:"name"`
	TargetAmount  float64    `json:"targetAmount"`
	CurrentAmount float64    `json:"currentAmount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Icon          Icon       `json:"icon"`
	Color         string     `json:"color"`
}

func (g SavingsGoal) RecordID() string { return g.ID }

// Progress returns CurrentAmount/TargetAmount clamped to [0, 1].
func (g SavingsGoal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return min(max(g.CurrentAmount/g.TargetAmount, 0), 1)
}

// Category classifies transactions.
type Category struct {
	ID        string          `json:"id"`
	Workspace Workspace       `json:"workspace"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	Icon      Icon            `json:"icon"`
	Color     string          `json:"color"`
	IsDefault bool            `json:"isDefault"`
}

func (c Category) RecordID() string { return c.ID }

// Client is a business customer.
type Client struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone"`
	Company   string       `json:"company"`
	Address   string       `json:"address"`
	Status    ClientStatus `json:"status"`
	Notes     string       `json:"notes"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (c Client) RecordID() string { return c.ID }

// Product is an item of the business catalog used in quotes.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	SKU         string  `json:"sku"`
	TaxRate     float64 `json:"taxRate"`
	Active      bool    `json:"active"`
}

func (p Product) RecordID() string { return p.ID }

// QuoteItem is a single line of a quote.
type QuoteItem struct {
	ProductID   string  `json:"productId"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Total returns Quantity*UnitPrice.
func (i QuoteItem) Total() float64 {
	return i.Quantity * i.UnitPrice
}

// Quote is a priced offer sent to a client.
type Quote struct {
	ID         string      `json:"id"`
	ClientID   string      `json:"clientId"`
	Number     string      `json:"number"`
	Items      []QuoteItem `json:"items"`
	Total      float64     `json:"total"`
	Status     QuoteStatus `json:"status"`
	IssueDate  time.Time   `json:"issueDate"`
	ValidUntil *time.Time  `json:"validUntil,omitempty"`
	Notes      string      `json:"notes"`
}

func (q Quote) RecordID() string { return q.ID }

// Loan is money borrowed from or lent to a third party.
type Loan struct {
	ID           string     `json:"id"`
	Workspace    Workspace  `json:"workspace"`
	Counterparty string     `json:"counterparty"`
	Principal    float64    `json:"principal"`
	InterestRate float64    `json:"interestRate"`
	Balance      float64    `json:"balance"`
	StartDate    time.Time  `json:"startDate"`
	TermMonths   int        `json:"termMonths"`
	Kind         LoanKind   `json:"kind"`
	Status       LoanStatus `json:"status"`
}

func (l Loan) RecordID() string { return l.ID }

// BusinessBudget caps spending of a business category over a period.
type BusinessBudget struct {
	ID        string       `json:"id"`
	Category  string       `json:"category"`
	Amount    float64      `json:"amount"`
	Spent     float64      `json:"spent"`
	Period    BudgetPeriod `json:"period"`
	StartDate time.Time    `json:"startDate"`
}

func (b BusinessBudget) RecordID() string { return b.ID }

// Remaining returns Amount-Spent, which may be negative when overspent.
func (b BusinessBudget) Remaining() float64 {
	return b.Amount - b.Spent
}
