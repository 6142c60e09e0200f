// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models contains the domain records, enumerations and wire types
// shared by the sync engine, the remote store server and their adapters.
package models

// Collection names a homogeneous set of domain records. The value doubles as
// the remote table name.
type Collection string

const (
	CollectionTransactions    Collection = "transactions"
	CollectionBills           Collection = "bills"
	CollectionGoals           Collection = "savings_goals"
	CollectionCategories      Collection = "categories"
	CollectionClients         Collection = "clients"
	CollectionProducts        Collection = "products"
	CollectionQuotes          Collection = "quotes"
	CollectionLoans           Collection = "loans"
	CollectionBusinessBudgets Collection = "business_budgets"
)

// TableProfiles is the remote table holding one profile row per user.
// It is not a synced collection.
const TableProfiles = "profiles"

var allCollections = []Collection{
	CollectionTransactions,
	CollectionBills,
	CollectionGoals,
	CollectionCategories,
	CollectionClients,
	CollectionProducts,
	CollectionQuotes,
	CollectionLoans,
	CollectionBusinessBudgets,
}

// AllCollections returns every synced collection in a fixed order.
func AllCollections() []Collection {
	out := make([]Collection, len(allCollections))
	copy(out, allCollections)
	return out
}

// Valid reports whether c is one of the synced collections.
func (c Collection) Valid() bool {
	for _, known := range allCollections {
		if c == known {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (c Collection) String() string {
	return string(c)
}

// Workspace partitions records of the same collection into personal and
// business books.
type Workspace string

const (
	WorkspacePersonal Workspace = "personal"
	WorkspaceBusiness Workspace = "business"
)

// ParseWorkspace maps a remote value to a Workspace. Anything unrecognised
// falls back to WorkspacePersonal.
func ParseWorkspace(s string) Workspace {
	switch Workspace(s) {
	case WorkspaceBusiness:
		return WorkspaceBusiness
	default:
		return WorkspacePersonal
	}
}

// Mutation is the kind of change applied to a record.
type Mutation string

const (
	MutationCreate Mutation = "create"
	MutationUpdate Mutation = "update"
	MutationDelete Mutation = "delete"
)

// Valid reports whether m is a known mutation kind.
func (m Mutation) Valid() bool {
	return m == MutationCreate || m == MutationUpdate || m == MutationDelete
}

// Record is implemented by every synced domain record. Records are immutable
// value snapshots: a mutation always replaces the whole value.
type Record interface {
	RecordID() string
}
