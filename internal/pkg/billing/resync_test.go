package billing

import (
	"context"
	"testing"

	stripe "github.com/stripe/stripe-go/v74"
)

func TestResyncAllSubscriptions(t *testing.T) {
	svc, repo, provider := newTestService()
	seedMapping(repo, 7, "cus_7")
	seedMapping(repo, 8, "cus_8")
	seedPremiumPrice(repo, "price_1")

	seedSubscription(repo, "sub_7", 7, "price_1", "active")
	seedSubscription(repo, "sub_8", 8, "price_1", "active")

	// Provider state moved on since the rows were written.
	provider.subscriptions["sub_7"] = providerSubscription("sub_7", "cus_7", "price_1", stripe.SubscriptionStatusCanceled)
	provider.subscriptions["sub_8"] = providerSubscription("sub_8", "cus_8", "price_1", stripe.SubscriptionStatusActive)

	synced, err := svc.ResyncAllSubscriptions(context.Background())
	if err != nil {
		t.Fatalf("ResyncAllSubscriptions() error = %v", err)
	}
	if synced != 2 {
		t.Fatalf("expected 2 synced subscriptions, got %d", synced)
	}
	if got := repo.subscriptions["sub_7"].Status; got != "canceled" {
		t.Fatalf("expected sub_7 canceled after sweep, got %q", got)
	}
	if repo.settings[7].Plan != "free" || repo.settings[8].Plan != "premium" {
		t.Fatalf("expected plans repaired by sweep, got %q and %q",
			repo.settings[7].Plan, repo.settings[8].Plan)
	}
}

func TestResyncAllSubscriptionsContinuesPastFailures(t *testing.T) {
	svc, repo, provider := newTestService()
	seedMapping(repo, 7, "cus_7")
	seedMapping(repo, 8, "cus_8")
	seedPremiumPrice(repo, "price_1")

	seedSubscription(repo, "sub_gone", 7, "price_1", "active")
	seedSubscription(repo, "sub_8", 8, "price_1", "active")

	// sub_gone is missing at the provider; sub_8 still resolves.
	provider.subscriptions["sub_8"] = providerSubscription("sub_8", "cus_8", "price_1", stripe.SubscriptionStatusActive)

	synced, err := svc.ResyncAllSubscriptions(context.Background())
	if err == nil {
		t.Fatal("expected first failure to be reported")
	}
	if synced != 1 {
		t.Fatalf("expected sweep to continue past the failure, synced = %d", synced)
	}
}
