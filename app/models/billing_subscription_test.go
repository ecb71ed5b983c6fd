package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBillingSubscriptionIsEntitling(t *testing.T) {
	for _, status := range []string{SubscriptionStatusActive, SubscriptionStatusTrialing} {
		sub := &BillingSubscription{Status: status}
		assert.True(t, sub.IsEntitling(), "status %q should entitle", status)
	}

	for _, status := range []string{
		SubscriptionStatusIncomplete,
		SubscriptionStatusIncompleteExpired,
		SubscriptionStatusPastDue,
		SubscriptionStatusCanceled,
		SubscriptionStatusUnpaid,
		"",
	} {
		sub := &BillingSubscription{Status: status}
		assert.False(t, sub.IsEntitling(), "status %q should not entitle", status)
	}
}
