// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/stretchr/testify/assert"
)

func TestChangeHub_RoutesByTableAndUser(t *testing.T) {
	hub := NewChangeHub(logger.Nop())

	bills, unsubBills := hub.Subscribe("bills", testUser)
	defer unsubBills()
	other, unsubOther := hub.Subscribe("bills", "user-2")
	defer unsubOther()
	loans, unsubLoans := hub.Subscribe("loans", testUser)
	defer unsubLoans()

	hub.Publish(models.ChangeEvent{Table: "bills", UserID: testUser, RecordID: "b1", Type: models.ChangeInsert})

	assert.Equal(t, "b1", (<-bills).RecordID)
	assert.Len(t, other, 0)
	assert.Len(t, loans, 0)
}

func TestChangeHub_UnsubscribeClosesOnce(t *testing.T) {
	hub := NewChangeHub(logger.Nop())

	events, unsubscribe := hub.Subscribe("bills", testUser)
	assert.Equal(t, 1, hub.Len())

	unsubscribe()
	unsubscribe()

	_, open := <-events
	assert.False(t, open)
	assert.Equal(t, 0, hub.Len())

	// публикация без подписчиков не паникует
	hub.Publish(models.ChangeEvent{Table: "bills", UserID: testUser})
}

func TestChangeHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewChangeHub(logger.Nop())

	events, unsubscribe := hub.Subscribe("bills", testUser)
	defer unsubscribe()

	for range changeSubscriberBuffer + 10 {
		hub.Publish(models.ChangeEvent{Table: "bills", UserID: testUser})
	}

	assert.Len(t, events, changeSubscriberBuffer)
}
