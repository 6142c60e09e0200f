// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package state

import (
	"context"

	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/MKhiriev/go-fin-sync/models"
)

var ids = utils.NewUUIDGenerator()

// Transactions returns the current transactions list.
func (s *Store) Transactions() []models.Transaction {
	return typed[models.Transaction](s, models.CollectionTransactions)
}

// AddTransaction assigns an id when missing, applies the record locally and
// returns it.
func (s *Store) AddTransaction(ctx context.Context, t models.Transaction) models.Transaction {
	if t.ID == "" {
		t.ID = ids.Generate()
	}
	s.add(ctx, models.CollectionTransactions, t)
	return t
}

func (s *Store) UpdateTransaction(ctx context.Context, t models.Transaction) {
	s.update(ctx, models.CollectionTransactions, t)
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) {
	s.remove(ctx, models.CollectionTransactions, id)
}

// Bills returns the current bills list.
func (s *Store) Bills() []models.Bill {
	return typed[models.Bill](s, models.CollectionBills)
}

func (s *Store) AddBill(ctx context.Context, b models.Bill) models.Bill {
	if b.ID == "" {
		b.ID = ids.Generate()
	}
	s.add(ctx, models.CollectionBills, b)
	return b
}

func (s *Store) UpdateBill(ctx context.Context, b models.Bill) {
	s.update(ctx, models.CollectionBills, b)
}

func (s *Store) DeleteBill(ctx context.Context, id string) {
	s.remove(ctx, models.CollectionBills, id)
}

// Goals returns the current savings goals list.
func (s *Store) Goals() []models.SavingsGoal {
	return typed[models.SavingsGoal](s, models.CollectionGoals)
}

func (s *Store) AddGoal(ctx context.Context, g models.SavingsGoal) models.SavingsGoal {
	if g.ID == "" {
		g.ID = ids.Generate()
	}
	s.add(ctx, models.CollectionGoals, g)
	return g
}

func (s *Store) UpdateGoal(ctx context.Context, g models.SavingsGoal) {
	s.update(ctx, models.CollectionGoals, g)
}

func (s *Store) DeleteGoal(ctx context.Context, id string) {
	s.remove(ctx, models.CollectionGoals, id)
}

// Categories returns the current categories list.
func (s *Store) Categories() []models.Category {
	return typed[models.Category](s, models.CollectionCategories)
}

func (s *Store) AddCategory(ctx context.Context, c models.Category) models.Category {
	if c.ID == "" {
		c.ID = ids.Generate()
	}
	s.add(ctx, models.CollectionCategories, c)
	return c
}

func (s *Store) UpdateCategory(ctx context.Context, c models.Category) {
	s.update(ctx, models.CollectionCategories, c)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) {
	s.remove(ctx, models.CollectionCategories, id)
}

// Clients returns the current clients list.
func (s *Store) Clients() []models.Client {
	return typed[models.Client](s, models.CollectionClients)
}

func (s *Store) AddClient(ctx context.Context, c models.Client) models.Client {
	if c.ID == "" {
		c.ID = ids.Generate()
	}
	s.add(ctx, models.CollectionClients, c)
	return c
}

func (s *Store) UpdateClient(ctx context.Context, c models.Client) {
	s.update(ctx, models.CollectionClients, c)
}

func (s *Store) DeleteClient(ctx context.Context, id string) {
	s.remove(ctx, models.CollectionClients, id)
}

// Products returns the current products list.
func (s *Store) Products() []models.Product {
	return typed[models.Product](s, models.CollectionProducts)
}

func (s *Store) AddProduct(ctx context.Context, p models.Product) models.Product {
	if p.ID == "" {
		p.ID = ids.Generate()
	}
	s.add(ctx, models.CollectionProducts, p)
	return p
}

func (s *Store) UpdateProduct(ctx context.Context, p models.Product) {
	s.update(ctx, models.CollectionProducts, p)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) {
	s.remove(ctx, models.CollectionProducts, id)
}

// Quotes returns the current quotes list.
func (s *Store) Quotes() []models.Quote {
	return typed[models.Quote](s, models.CollectionQuotes)
}

func (s *Store) AddQuote(ctx context.Context, q models.Quote) models.Quote {
	if q.ID == "" {
		q.ID = ids.Generate()
	}
	s.add(ctx, models.CollectionQuotes, q)
	return q
}

func (s *Store) UpdateQuote(ctx context.Context, q models.Quote) {
	s.update(ctx, models.CollectionQuotes, q)
}

func (s *Store) DeleteQuote(ctx context.Context, id string) {
	s.remove(ctx, models.CollectionQuotes, id)
}

// Loans returns the current loans list.
func (s *Store) Loans() []models.Loan {
	return typed[models.Loan](s, models.CollectionLoans)
}

func (s *Store) AddLoan(ctx context.Context, l models.Loan) models.Loan {
	if l.ID == "" {
		l.ID = ids.Generate()
	}
	s.add(ctx, models.CollectionLoans, l)
	return l
}

func (s *Store) UpdateLoan(ctx context.Context, l models.Loan) {
	s.update(ctx, models.CollectionLoans, l)
}

func (s *Store) DeleteLoan(ctx context.Context, id string) {
	s.remove(ctx, models.CollectionLoans, id)
}

// Budgets returns the current budgets list.
func (s *Store) Budgets() []models.BusinessBudget {
	return typed[models.BusinessBudget](s, models.CollectionBusinessBudgets)
}

func (s *Store) AddBudget(ctx context.Context, b models.BusinessBudget) models.BusinessBudget {
	if b.ID == "" {
		b.ID = ids.Generate()
	}
	s.add(ctx, models.CollectionBusinessBudgets, b)
	return b
}

func (s *Store) UpdateBudget(ctx context.Context, b models.BusinessBudget) {
	s.update(ctx, models.CollectionBusinessBudgets, b)
}

func (s *Store) DeleteBudget(ctx context.Context, id string) {
	s.remove(ctx, models.CollectionBusinessBudgets, id)
}
