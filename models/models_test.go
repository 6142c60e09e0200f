// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── enums ───────────────────────────────────────────────────────────────────

func TestParse_DefaultsForUnknownValues(t *testing.T) {
	assert.Equal(t, TransactionExpense, ParseTransactionType("refund"))
	assert.Equal(t, TransactionIncome, ParseTransactionType("income"))

	assert.Equal(t, BillMonthly, ParseBillFrequency("fortnightly"))
	assert.Equal(t, BillYearly, ParseBillFrequency("yearly"))
	assert.Equal(t, BillPending, ParseBillStatus(""))
	assert.Equal(t, BillOverdue, ParseBillStatus("overdue"))

	assert.Equal(t, ClientLead, ParseClientStatus("vip"))
	assert.Equal(t, QuoteDraft, ParseQuoteStatus("cancelled"))
	assert.Equal(t, QuoteExpired, ParseQuoteStatus("expired"))

	assert.Equal(t, LoanBorrowed, ParseLoanKind("gift"))
	assert.Equal(t, LoanLent, ParseLoanKind("lent"))
	assert.Equal(t, LoanActive, ParseLoanStatus("frozen"))
	assert.Equal(t, LoanPaidOff, ParseLoanStatus("paid_off"))

	assert.Equal(t, BudgetMonthly, ParseBudgetPeriod("weekly"))
	assert.Equal(t, WorkspacePersonal, ParseWorkspace("family"))
	assert.Equal(t, WorkspaceBusiness, ParseWorkspace("business"))
}

func TestParseIcon(t *testing.T) {
	tests := []struct {
		in   string
		want Icon
	}{
		{in: "house", want: "home"},
		{in: "groceries", want: "shopping-cart"},
		{in: "piggy-bank", want: "piggy-bank"},
		{in: "", want: IconDefault},
		{in: "unicorn", want: IconDefault},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIcon(tt.in))
		})
	}
}

// ── collections ─────────────────────────────────────────────────────────────

func TestCollections(t *testing.T) {
	all := AllCollections()
	require.Len(t, all, 9)
	assert.Equal(t, CollectionTransactions, all[0])

	for _, c := range all {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Collection(TableProfiles).Valid())
	assert.False(t, Collection("secrets").Valid())

	// копия: изменения не влияют на порядок
	all[0] = "changed"
	assert.Equal(t, CollectionTransactions, AllCollections()[0])
}

func TestMutation_Valid(t *testing.T) {
	assert.True(t, MutationCreate.Valid())
	assert.True(t, MutationDelete.Valid())
	assert.False(t, Mutation("merge").Valid())
}

// ── sync state ──────────────────────────────────────────────────────────────

func TestSyncState_CloneIsDeep(t *testing.T) {
	now := time.Now()
	ts := now
	msg := "boom"
	s := SyncState{Phase: PhaseError, IsOnline: true, LastSyncTime: &ts, SyncError: &msg}

	c := s.Clone()
	*s.SyncError = "changed"
	*s.LastSyncTime = now.Add(time.Hour)

	assert.Equal(t, "boom", *c.SyncError)
	assert.True(t, c.LastSyncTime.Equal(now))
	assert.Equal(t, PhaseError, c.Phase)
}

func TestRemoteResult_OK(t *testing.T) {
	assert.True(t, RemoteResult{}.OK())
	assert.False(t, RemoteResult{Err: assert.AnError}.OK())
}

// ── token ───────────────────────────────────────────────────────────────────

func TestToken_GetUserID(t *testing.T) {
	tok := Token{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}, SignedString: "a.b.c"}

	id, err := tok.GetUserID()
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
	assert.Equal(t, "a.b.c", tok.String())

	_, err = (&Token{}).GetUserID()
	assert.Error(t, err)
}

func TestAppBuildInfo(t *testing.T) {
	info := NewAppBuildInfo("1.0.0", "2026-01-01", "abc")

	assert.Equal(t, "1.0.0", info.BuildVersion())
	assert.Equal(t, "2026-01-01", info.BuildDate())
	assert.Equal(t, "abc", info.BuildCommit())
}
