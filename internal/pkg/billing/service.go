package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/streamnest/StreamNest/app/models"
	"github.com/streamnest/StreamNest/internal/pkg/entitlements"
	"gorm.io/gorm"
)

// ErrUnmappedCustomer marks a subscription event whose provider customer has
// no local mapping. That is an upstream consistency fault and is never
// swallowed: dropping it would leave the subscription permanently out of sync.
var ErrUnmappedCustomer = errors.New("no local user mapped to provider customer")

// Service keeps local billing state consistent with the payment provider.
// The provider is the system of record; every operation here is an idempotent
// replay of provider-reported state and is safe to re-run from the start.
type Service struct {
	repo     Repository
	provider ProviderAPI
}

// NewService creates a billing service from an injected repository and provider client.
func NewService(repo Repository, provider ProviderAPI) *Service {
	return &Service{repo: repo, provider: provider}
}

// NewServiceFromDB creates a billing service from a GORM DB handle using the
// Stripe client configured via environment.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), NewStripeAPIFromEnv())
}

// ReconcileUserPlan computes and writes the effective plan for a user from
// their entitling subscriptions, resolving each subscription's price metadata.
func (s *Service) ReconcileUserPlan(ctx context.Context, userID uint) (string, error) {
	_ = ctx
	if userID == 0 {
		return "", errors.New("user_id is required")
	}

	subs, err := s.repo.ListSubscriptionsByUser(userID)
	if err != nil {
		return "", err
	}

	best := entitlements.PlanFree
	for _, sub := range subs {
		if !sub.IsEntitling() {
			continue
		}
		candidate, err := s.planForPrice(sub.PriceID)
		if err != nil {
			return "", err
		}
		if entitlements.Rank(candidate) > entitlements.Rank(best) {
			best = candidate
		}
	}

	us, err := s.repo.GetOrCreateUserSettings(userID)
	if err != nil {
		return "", err
	}
	if entitlements.Normalize(us.Plan) == best {
		return string(best), nil
	}
	us.Plan = string(best)
	if err := s.repo.SaveUserSettings(us); err != nil {
		return "", err
	}
	entitlements.InvalidatePlan(userID)
	return string(best), nil
}

// planForPrice resolves the internal plan a mirrored price grants via its
// "plan" metadata key. Unknown or missing prices grant the free plan.
func (s *Service) planForPrice(priceID string) (entitlements.Plan, error) {
	if strings.TrimSpace(priceID) == "" {
		return entitlements.PlanFree, nil
	}
	price, err := s.repo.GetPrice(priceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entitlements.PlanFree, nil
		}
		return entitlements.PlanFree, err
	}
	return entitlements.Normalize(priceMetadataValue(price, "plan")), nil
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	_ = ctx
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	ProviderEventID string
	EventType       string
	PayloadJSON     string
}
