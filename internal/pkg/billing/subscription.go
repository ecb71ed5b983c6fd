package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/streamnest/StreamNest/app/models"
	stripe "github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"
)

// SyncSubscription fetches the authoritative subscription state from the
// provider and replaces the local row. Delivery order does not matter: every
// event causes a refetch, so the row always converges to current provider
// state no matter how stale or reordered the triggering payloads were.
//
// The upsert is the last storage step; a provider or translation failure
// commits nothing, leaving the event safe to redeliver.
func (s *Service) SyncSubscription(ctx context.Context, subscriptionID, providerCustomerID string, isCreationEvent bool) error {
	if strings.TrimSpace(subscriptionID) == "" || strings.TrimSpace(providerCustomerID) == "" {
		return errors.New("subscription_id and provider_customer_id are required")
	}

	mapping, err := s.repo.GetCustomerByProviderID(providerCustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrUnmappedCustomer, providerCustomerID)
		}
		return err
	}

	sub, err := s.provider.RetrieveSubscription(ctx, subscriptionID)
	if err != nil {
		return err
	}

	if err := s.repo.UpsertSubscription(subscriptionRow(mapping.UserID, sub)); err != nil {
		return err
	}

	if _, err := s.ReconcileUserPlan(ctx, mapping.UserID); err != nil {
		return err
	}

	if isCreationEvent && sub.DefaultPaymentMethod != nil {
		return s.PropagateBillingDetails(ctx, mapping.UserID, sub.DefaultPaymentMethod)
	}
	return nil
}

// subscriptionRow translates a provider subscription into the local row.
// Full replace semantics: every column is written on every sync.
func subscriptionRow(userID uint, sub *stripe.Subscription) *models.BillingSubscription {
	priceID := ""
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		priceID = sub.Items.Data[0].Price.ID
	}

	// Like the zero timestamps below, a zero quantity means the provider
	// omitted the field (metered prices carry none). The row keeps the
	// one-seat floor every subscription represents.
	var quantity int64
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		quantity = sub.Items.Data[0].Quantity
	}
	if quantity == 0 {
		quantity = 1
	}

	return &models.BillingSubscription{
		ID:                 sub.ID,
		UserID:             userID,
		PriceID:            priceID,
		Status:             string(sub.Status),
		Quantity:           quantity,
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
		CancelAt:           timestampOrNil(sub.CancelAt),
		CanceledAt:         timestampOrNil(sub.CanceledAt),
		CurrentPeriodStart: timestampOrNil(sub.CurrentPeriodStart),
		CurrentPeriodEnd:   timestampOrNil(sub.CurrentPeriodEnd),
		Created:            timestampOrNil(sub.Created),
		EndedAt:            timestampOrNil(sub.EndedAt),
		TrialStart:         timestampOrNil(sub.TrialStart),
		TrialEnd:           timestampOrNil(sub.TrialEnd),
		Metadata:           metadataJSON(sub.Metadata),
	}
}

// timestampOrNil translates provider epoch seconds into a nullable UTC time.
// Zero means the field was absent on the provider object and must stay null,
// never become 1970-01-01.
func timestampOrNil(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
