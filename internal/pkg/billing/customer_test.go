package billing

import (
	"context"
	"errors"
	"testing"
)

func TestResolveCustomerCreatesMappingOnFirstUse(t *testing.T) {
	svc, repo, provider := newTestService()

	id, err := svc.ResolveCustomer(context.Background(), 42, "user@example.com")
	if err != nil {
		t.Fatalf("ResolveCustomer() error = %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty provider customer id")
	}
	if provider.createCustomerCalls != 1 {
		t.Fatalf("expected one provider call, got %d", provider.createCustomerCalls)
	}
	if provider.createdMetadata["local_user_id"] != "42" {
		t.Fatalf("expected local user id in customer metadata, got %v", provider.createdMetadata)
	}

	mapping := repo.customers[42]
	if mapping == nil || mapping.ProviderCustomerID != id {
		t.Fatalf("expected stored mapping to %q, got %+v", id, mapping)
	}
}

func TestResolveCustomerFastPathSkipsProvider(t *testing.T) {
	svc, _, provider := newTestService()

	first, err := svc.ResolveCustomer(context.Background(), 42, "user@example.com")
	if err != nil {
		t.Fatalf("first ResolveCustomer() error = %v", err)
	}
	second, err := svc.ResolveCustomer(context.Background(), 42, "user@example.com")
	if err != nil {
		t.Fatalf("second ResolveCustomer() error = %v", err)
	}
	if first != second {
		t.Fatalf("expected stable customer id, got %q then %q", first, second)
	}
	if provider.createCustomerCalls != 1 {
		t.Fatalf("expected exactly one provider call, got %d", provider.createCustomerCalls)
	}
}

func TestResolveCustomerAbortsOnReadFault(t *testing.T) {
	svc, repo, provider := newTestService()
	repo.failGetCustomer = errors.New("connection reset")

	if _, err := svc.ResolveCustomer(context.Background(), 42, "user@example.com"); err == nil {
		t.Fatal("expected read fault to abort resolution")
	}
	// A transient read fault must never mint a provider-side customer.
	if provider.createCustomerCalls != 0 {
		t.Fatalf("expected no provider call, got %d", provider.createCustomerCalls)
	}
}

func TestResolveCustomerProviderFailureLeavesNoMapping(t *testing.T) {
	svc, repo, provider := newTestService()
	provider.failCreateCustomer = errors.New("provider unavailable")

	if _, err := svc.ResolveCustomer(context.Background(), 42, "user@example.com"); err == nil {
		t.Fatal("expected provider fault to propagate")
	}
	if len(repo.customers) != 0 {
		t.Fatalf("expected no mapping rows, got %d", len(repo.customers))
	}
}

func TestResolveCustomerRequiresUserID(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.ResolveCustomer(context.Background(), 0, "user@example.com"); err == nil {
		t.Fatal("expected error for missing user id")
	}
}
