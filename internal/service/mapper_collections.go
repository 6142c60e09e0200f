// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "github.com/MKhiriev/go-fin-sync/models"

// Remote rows use snake_case columns; optional columns are pointers so an
// absent value gets the local default.

type transactionRow struct {
	ID            string  `json:"id"`
	Workspace     string  `json:"workspace"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Description   *string `json:"description"`
	Date          string  `json:"date"`
	PaymentMethod *string `json:"payment_method"`
	Recurring     *bool   `json:"is_recurring"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// TransactionMapper maps the "transactions" table.
var TransactionMapper RowMapper[models.Transaction] = rowMapper[models.Transaction, transactionRow]{
	toRecord: func(r transactionRow) models.Transaction {
		return models.Transaction{
			ID:            r.ID,
			Workspace:     models.ParseWorkspace(r.Workspace),
			Type:          models.ParseTransactionType(r.Type),
			Amount:        r.Amount,
			Category:      r.Category,
			Description:   deref(r.Description, ""),
			Date:          parseTime(r.Date),
			PaymentMethod: deref(r.PaymentMethod, "cash"),
			Recurring:     deref(r.Recurring, false),
			CreatedAt:     parseTime(r.CreatedAt),
		}
	},
	toRow: func(t models.Transaction) transactionRow {
		return transactionRow{
			ID:            t.ID,
			Workspace:     string(models.ParseWorkspace(string(t.Workspace))),
			Type:          string(t.Type),
			Amount:        t.Amount,
			Category:      t.Category,
			Description:   &t.Description,
			Date:          formatDate(t.Date),
			PaymentMethod: &t.PaymentMethod,
			Recurring:     &t.Recurring,
			CreatedAt:     formatTime(t.CreatedAt),
		}
	},
}

type billRow struct {
	ID        string  `json:"id"`
	Workspace string  `json:"workspace"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	DueDate   string  `json:"due_date"`
	Frequency string  `json:"frequency"`
	Status    string  `json:"status"`
	Category  *string `json:"category"`
	AutoPay   *bool   `json:"auto_pay"`
}

// BillMapper maps the "bills" table.
var BillMapper RowMapper[models.Bill] = rowMapper[models.Bill, billRow]{
	toRecord: func(r billRow) models.Bill {
		return models.Bill{
			ID:        r.ID,
			Workspace: models.ParseWorkspace(r.Workspace),
			Name:      r.Name,
			Amount:    r.Amount,
			DueDate:   parseTime(r.DueDate),
			Frequency: models.ParseBillFrequency(r.Frequency),
			Status:    models.ParseBillStatus(r.Status),
			Category:  deref(r.Category, ""),
			AutoPay:   deref(r.AutoPay, false),
		}
	},
	toRow: func(b models.Bill) billRow {
		return billRow{
			ID:        b.ID,
			Workspace: string(models.ParseWorkspace(string(b.Workspace))),
			Name:      b.Name,
			Amount:    b.Amount,
			DueDate:   formatDate(b.DueDate),
			Frequency: string(b.Frequency),
			Status:    string(b.Status),
			Category:  &b.Category,
			AutoPay:   &b.AutoPay,
		}
	},
}

type goalRow struct {
	ID            string   `json:"id"`
	Workspace     string   `json:"workspace"`
	Name          string   `json:"name"`
	TargetAmount  float64  `json:"target_amount"`
	CurrentAmount *float64 `json:"current_amount"`
	Deadline      *string  `json:"deadline"`
	Icon          string   `json:"icon"`
	Color         *string  `json:"color"`
}

// GoalMapper maps the "savings_goals" table.
var GoalMapper RowMapper[models.SavingsGoal] = rowMapper[models.SavingsGoal, goalRow]{
	toRecord: func(r goalRow) models.SavingsGoal {
		return models.SavingsGoal{
			ID:            r.ID,
			Workspace:     models.ParseWorkspace(r.Workspace),
			Name:          r.Name,
			TargetAmount:  r.TargetAmount,
			CurrentAmount: deref(r.CurrentAmount, 0),
			Deadline:      parseOptionalTime(r.Deadline),
			Icon:          models.ParseIcon(r.Icon),
			Color:         deref(r.Color, defaultColor),
		}
	},
	toRow: func(g models.SavingsGoal) goalRow {
		return goalRow{
			ID:            g.ID,
			Workspace:     string(models.ParseWorkspace(string(g.Workspace))),
			Name:          g.Name,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: &g.CurrentAmount,
			Deadline:      formatOptionalDate(g.Deadline),
			Icon:          string(g.Icon),
			Color:         &g.Color,
		}
	},
}

const defaultColor = "#6b7280"

type categoryRow struct {
	ID        string  `json:"id"`
	Workspace string  `json:"workspace"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Icon      string  `json:"icon"`
	Color     *string `json:"color"`
	IsDefault *bool   `json:"is_default"`
}

// CategoryMapper maps the "categories" table.
var CategoryMapper RowMapper[models.Category] = rowMapper[models.Category, categoryRow]{
	toRecord: func(r categoryRow) models.Category {
		return models.Category{
			ID:        r.ID,
			Workspace: models.ParseWorkspace(r.Workspace),
			Name:      r.Name,
			Type:      models.ParseTransactionType(r.Type),
			Icon:      models.ParseIcon(r.Icon),
			Color:     deref(r.Color, defaultColor),
			IsDefault: deref(r.IsDefault, false),
		}
	},
	toRow: func(c models.Category) categoryRow {
		return categoryRow{
			ID:        c.ID,
			Workspace: string(models.ParseWorkspace(string(c.Workspace))),
			Name:      c.Name,
			Type:      string(c.Type),
			Icon:      string(c.Icon),
			Color:     &c.Color,
			IsDefault: &c.IsDefault,
		}
	},
}

type clientRow struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Company   *string `json:"company"`
	Address   *string `json:"address"`
	Status    string  `json:"status"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// ClientMapper maps the "clients" table.
var ClientMapper RowMapper[models.Client] = rowMapper[models.Client, clientRow]{
	toRecord: func(r clientRow) models.Client {
		return models.Client{
			ID:        r.ID,
			Name:      r.Name,
			Email:     deref(r.Email, ""),
			Phone:     deref(r.Phone, ""),
			Company:   deref(r.Company, ""),
			Address:   deref(r.Address, ""),
			Status:    models.ParseClientStatus(r.Status),
			Notes:     deref(r.Notes, ""),
			CreatedAt: parseTime(r.CreatedAt),
		}
	},
	toRow: func(c models.Client) clientRow {
		return clientRow{
			ID:        c.ID,
			Name:      c.Name,
			Email:     &c.Email,
			Phone:     &c.Phone,
			Company:   &c.Company,
			Address:   &c.Address,
			Status:    string(c.Status),
			Notes:     &c.Notes,
			CreatedAt: formatTime(c.CreatedAt),
		}
	},
}

type productRow struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       float64  `json:"price"`
	Unit        *string  `json:"unit"`
	SKU         *string  `json:"sku"`
	TaxRate     *float64 `json:"tax_rate"`
	Active      *bool    `json:"is_active"`
}

// ProductMapper maps the "products" table.
var ProductMapper RowMapper[models.Product] = rowMapper[models.Product, productRow]{
	toRecord: func(r productRow) models.Product {
		return models.Product{
			ID:          r.ID,
			Name:        r.Name,
			Description: deref(r.Description, ""),
			Price:       r.Price,
			Unit:        deref(r.Unit, "unit"),
			SKU:         deref(r.SKU, ""),
			TaxRate:     deref(r.TaxRate, 0),
			Active:      deref(r.Active, true),
		}
	},
	toRow: func(p models.Product) productRow {
		return productRow{
			ID:          p.ID,
			Name:        p.Name,
			Description: &p.Description,
			Price:       p.Price,
			Unit:        &p.Unit,
			SKU:         &p.SKU,
			TaxRate:     &p.TaxRate,
			Active:      &p.Active,
		}
	},
}

type quoteItemRow struct {
	ProductID   string  `json:"product_id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type quoteRow struct {
	ID         string         `json:"id"`
	ClientID   string         `json:"client_id"`
	Number     string         `json:"quote_number"`
	Items      []quoteItemRow `json:"items"`
	Total      *float64       `json:"total"`
	Status     string         `json:"status"`
	IssueDate  string         `json:"issue_date"`
	ValidUntil *string        `json:"valid_until"`
	Notes      *string        `json:"notes"`
}

// QuoteMapper maps the "quotes" table. A missing total is recomputed from the
// line items.
var QuoteMapper RowMapper[models.Quote] = rowMapper[models.Quote, quoteRow]{
	toRecord: func(r quoteRow) models.Quote {
		items := make([]models.QuoteItem, 0, len(r.Items))
		var sum float64
		for _, it := range r.Items {
			item := models.QuoteItem{
				ProductID:   it.ProductID,
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
			}
			sum += item.Total()
			items = append(items, item)
		}

		return models.Quote{
			ID:         r.ID,
			ClientID:   r.ClientID,
			Number:     r.Number,
			Items:      items,
			Total:      deref(r.Total, sum),
			Status:     models.ParseQuoteStatus(r.Status),
			IssueDate:  parseTime(r.IssueDate),
			ValidUntil: parseOptionalTime(r.ValidUntil),
			Notes:      deref(r.Notes, ""),
		}
	},
	toRow: func(q models.Quote) quoteRow {
		items := make([]quoteItemRow, 0, len(q.Items))
		for _, it := range q.Items {
			items = append(items, quoteItemRow{
				ProductID:   it.ProductID,
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
			})
		}

		return quoteRow{
			ID:         q.ID,
			ClientID:   q.ClientID,
			Number:     q.Number,
			Items:      items,
			Total:      &q.Total,
			Status:     string(q.Status),
			IssueDate:  formatDate(q.IssueDate),
			ValidUntil: formatOptionalDate(q.ValidUntil),
			Notes:      &q.Notes,
		}
	},
}

type loanRow struct {
	ID           string   `json:"id"`
	Workspace    string   `json:"workspace"`
	Counterparty string   `json:"counterparty"`
	Principal    float64  `json:"principal"`
	InterestRate *float64 `json:"interest_rate"`
	Balance      *float64 `json:"balance"`
	StartDate    string   `json:"start_date"`
	TermMonths   *int     `json:"term_months"`
	Kind         string   `json:"loan_type"`
	Status       string   `json:"status"`
}

// LoanMapper maps the "loans" table. A missing balance defaults to the
// principal.
var LoanMapper RowMapper[models.Loan] = rowMapper[models.Loan, loanRow]{
	toRecord: func(r loanRow) models.Loan {
		return models.Loan{
			ID:           r.ID,
			Workspace:    models.ParseWorkspace(r.Workspace),
			Counterparty: r.Counterparty,
			Principal:    r.Principal,
			InterestRate: deref(r.InterestRate, 0),
			Balance:      deref(r.Balance, r.Principal),
			StartDate:    parseTime(r.StartDate),
			TermMonths:   deref(r.TermMonths, 0),
			Kind:         models.ParseLoanKind(r.Kind),
			Status:       models.ParseLoanStatus(r.Status),
		}
	},
	toRow: func(l models.Loan) loanRow {
		return loanRow{
			ID:           l.ID,
			Workspace:    string(models.ParseWorkspace(string(l.Workspace))),
			Counterparty: l.Counterparty,
			Principal:    l.Principal,
			InterestRate: &l.InterestRate,
			Balance:      &l.Balance,
			StartDate:    formatDate(l.StartDate),
			TermMonths:   &l.TermMonths,
			Kind:         string(l.Kind),
			Status:       string(l.Status),
		}
	},
}

type budgetRow struct {
	ID        string   `json:"id"`
	Category  string   `json:"category"`
	Amount    float64  `json:"amount"`
	Spent     *float64 `json:"spent"`
	Period    string   `json:"period"`
	StartDate string   `json:"start_date"`
}

// BudgetMapper maps the "business_budgets" table.
var BudgetMapper RowMapper[models.BusinessBudget] = rowMapper[models.BusinessBudget, budgetRow]{
	toRecord: func(r budgetRow) models.BusinessBudget {
		return models.BusinessBudget{
			ID:        r.ID,
			Category:  r.Category,
			Amount:    r.Amount,
			Spent:     deref(r.Spent, 0),
			Period:    models.ParseBudgetPeriod(r.Period),
			StartDate: parseTime(r.StartDate),
		}
	},
	toRow: func(b models.BusinessBudget) budgetRow {
		return budgetRow{
			ID:        b.ID,
			Category:  b.Category,
			Amount:    b.Amount,
			Spent:     &b.Spent,
			Period:    string(b.Period),
			StartDate: formatDate(b.StartDate),
		}
	},
}
