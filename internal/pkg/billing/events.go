package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v74"
)

// Provider event types consumed by the reconciliation core. Everything else
// is acknowledged and ignored.
const (
	EventProductCreated      = "product.created"
	EventProductUpdated      = "product.updated"
	EventPriceCreated        = "price.created"
	EventPriceUpdated        = "price.updated"
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// IsRelevantEvent reports whether the core processes the given event type.
func IsRelevantEvent(eventType string) bool {
	switch strings.TrimSpace(eventType) {
	case EventProductCreated, EventProductUpdated,
		EventPriceCreated, EventPriceUpdated,
		EventCheckoutCompleted,
		EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		return true
	default:
		return false
	}
}

// ProcessEvent dispatches a verified provider event to the matching
// reconciliation operation. Failures propagate so the delivery layer can
// answer non-2xx and the provider redelivers; every operation is idempotent.
func (s *Service) ProcessEvent(ctx context.Context, event stripe.Event) error {
	switch string(event.Type) {
	case EventProductCreated, EventProductUpdated:
		var product stripe.Product
		if err := json.Unmarshal(event.Data.Raw, &product); err != nil {
			return fmt.Errorf("parse product payload: %w", err)
		}
		return s.UpsertProduct(ctx, &product)

	case EventPriceCreated, EventPriceUpdated:
		var price stripe.Price
		if err := json.Unmarshal(event.Data.Raw, &price); err != nil {
			return fmt.Errorf("parse price payload: %w", err)
		}
		return s.UpsertPrice(ctx, &price)

	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("parse subscription payload: %w", err)
		}
		customerID := ""
		if sub.Customer != nil {
			customerID = sub.Customer.ID
		}
		return s.SyncSubscription(ctx, sub.ID, customerID, string(event.Type) == EventSubscriptionCreated)

	case EventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("parse checkout session payload: %w", err)
		}
		if session.Mode != stripe.CheckoutSessionModeSubscription {
			return nil
		}
		subscriptionID := ""
		if session.Subscription != nil {
			subscriptionID = session.Subscription.ID
		}
		customerID := ""
		if session.Customer != nil {
			customerID = session.Customer.ID
		}
		return s.SyncSubscription(ctx, subscriptionID, customerID, true)

	default:
		return nil
	}
}
