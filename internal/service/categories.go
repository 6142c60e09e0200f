// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-fin-sync/internal/adapter"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/MKhiriev/go-fin-sync/models"
)

type defaultCategory struct {
	name  string
	kind  models.TransactionType
	icon  models.Icon
	color string
}

var defaultCategories = []defaultCategory{
	{name: "Salary", kind: models.TransactionIncome, icon: "briefcase", color: "#10b981"},
	{name: "Freelance", kind: models.TransactionIncome, icon: "smartphone", color: "#14b8a6"},
	{name: "Investments", kind: models.TransactionIncome, icon: "trending-up", color: "#3b82f6"},
	{name: "Food & Dining", kind: models.TransactionExpense, icon: "utensils", color: "#f97316"},
	{name: "Groceries", kind: models.TransactionExpense, icon: "shopping-cart", color: "#eab308"},
	{name: "Transportation", kind: models.TransactionExpense, icon: "car", color: "#6366f1"},
	{name: "Housing", kind: models.TransactionExpense, icon: "home", color: "#8b5cf6"},
	{name: "Utilities", kind: models.TransactionExpense, icon: "zap", color: "#0ea5e9"},
	{name: "Healthcare", kind: models.TransactionExpense, icon: "heart", color: "#ef4444"},
	{name: "Entertainment", kind: models.TransactionExpense, icon: "film", color: "#ec4899"},
	{name: "Shopping", kind: models.TransactionExpense, icon: "shopping-bag", color: "#d946ef"},
	{name: "Education", kind: models.TransactionExpense, icon: "book", color: "#22c55e"},
	{name: "Other", kind: models.TransactionExpense, icon: models.IconDefault, color: defaultColor},
}

// DefaultCategories returns the first-run category catalog of userID in the
// personal workspace. Ids are derived from the user and the name, so the
// catalog is the same on every device.
func DefaultCategories(userID string) []models.Category {
	out := make([]models.Category, 0, len(defaultCategories))
	for _, d := range defaultCategories {
		out = append(out, models.Category{
			ID:        utils.SeedID(userID, string(models.WorkspacePersonal), d.name),
			Workspace: models.WorkspacePersonal,
			Name:      d.name,
			Type:      d.kind,
			Icon:      d.icon,
			Color:     d.color,
			IsDefault: true,
		})
	}
	return out
}

// seedCategories upserts the default catalog in a single call.
func seedCategories(gateway adapter.Gateway) SeedFunc {
	return func(ctx context.Context, userID string) error {
		categories := DefaultCategories(userID)
		rows := make([]json.RawMessage, 0, len(categories))
		for _, c := range categories {
			row, err := CategoryMapper.ToRow(c)
			if err != nil {
				return fmt.Errorf("encode default category %q: %w", c.Name, err)
			}
			rows = append(rows, row)
		}

		res := gateway.Call(ctx, models.RemoteOperation{
			Kind:  models.QueryUpsert,
			Table: models.CollectionCategories.String(),
			Rows:  rows,
		})
		if res.Err != nil {
			return fmt.Errorf("seed categories: %w", res.Err)
		}
		return nil
	}
}
