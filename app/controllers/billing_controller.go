package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/streamnest/StreamNest/internal/pkg/billing"
	"github.com/streamnest/StreamNest/internal/pkg/database"
	"github.com/streamnest/StreamNest/internal/pkg/usercontext"
)

const billingRequestTimeout = 15 * time.Second

// HandleBillingWebhook receives provider events. Delivery is at-least-once
// and unordered; everything behind the signature check is idempotent, so a
// non-2xx answer is always safe and simply triggers redelivery.
func HandleBillingWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get("Stripe-Signature")

	event, err := billing.VerifyWebhookSignature(rawBody, signature)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_signature"})
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), billingRequestTimeout)
	defer cancel()

	created, stored, err := svc.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		PayloadJSON:     string(rawBody),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	// Short-circuit only deliveries that already processed cleanly. A failed
	// or still-unprocessed event is dispatched again on redelivery.
	if !created && stored.ProcessedSuccessfully() {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	if !billing.IsRelevantEvent(string(event.Type)) {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, nil)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}

	processErr := svc.ProcessEvent(ctx, event)
	_ = svc.MarkWebhookProcessed(ctx, stored.ID, processErr)
	if processErr != nil {
		if errors.Is(processErr, billing.ErrUnmappedCustomer) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unmapped_customer"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "event_processing_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// HandleBillingCustomer resolves the provider customer id for the logged-in
// user, creating the provider-side customer on first use. The checkout flow
// calls this before redirecting to the provider.
func HandleBillingCustomer(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), billingRequestTimeout)
	defer cancel()

	customerID, err := svc.ResolveCustomer(ctx, userCtx.UserID, userCtx.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "customer_resolution_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"customer_id": customerID})
}

// HandleUserBillingResync recomputes the effective plan for the logged-in user.
func HandleUserBillingResync(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), billingRequestTimeout)
	defer cancel()

	effectivePlan, err := svc.ReconcileUserPlan(ctx, userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "plan_resync_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"plan": effectivePlan})
}
