package billing

import (
	"context"
	"errors"
	"strings"
	"testing"

	stripe "github.com/stripe/stripe-go/v74"
)

func completePaymentMethod() *stripe.PaymentMethod {
	return &stripe.PaymentMethod{
		Type: stripe.PaymentMethodTypeCard,
		BillingDetails: &stripe.PaymentMethodBillingDetails{
			Name:  "Jane Doe",
			Phone: "+15550100",
			Address: &stripe.Address{
				City:       "Berlin",
				Country:    "DE",
				Line1:      "Example Str. 1",
				PostalCode: "10115",
			},
		},
	}
}

func TestPropagateBillingDetailsWritesBothSides(t *testing.T) {
	svc, repo, provider := newTestService()
	seedMapping(repo, 7, "cus_7")

	if err := svc.PropagateBillingDetails(context.Background(), 7, completePaymentMethod()); err != nil {
		t.Fatalf("PropagateBillingDetails() error = %v", err)
	}

	if provider.updateCustomerCalls != 1 || provider.lastUpdatedID != "cus_7" {
		t.Fatalf("expected provider customer update on cus_7, got %d calls on %q",
			provider.updateCustomerCalls, provider.lastUpdatedID)
	}
	if provider.lastUpdate.Name != "Jane Doe" || provider.lastUpdate.Phone != "+15550100" {
		t.Fatalf("unexpected update payload: %+v", provider.lastUpdate)
	}

	user := repo.users[7]
	if user == nil {
		t.Fatal("expected user billing info to be written")
	}
	if !strings.Contains(string(user.BillingAddress), "Berlin") {
		t.Fatalf("expected address in stored blob, got %s", user.BillingAddress)
	}
	if !strings.Contains(string(user.PaymentMethod), "card") {
		t.Fatalf("expected type-keyed payment method blob, got %s", user.PaymentMethod)
	}
}

func TestPropagateBillingDetailsNoOpOnIncompleteDetails(t *testing.T) {
	svc, repo, provider := newTestService()
	seedMapping(repo, 7, "cus_7")

	tests := []struct {
		name   string
		mutate func(pm *stripe.PaymentMethod)
	}{
		{name: "missing name", mutate: func(pm *stripe.PaymentMethod) { pm.BillingDetails.Name = "" }},
		{name: "missing phone", mutate: func(pm *stripe.PaymentMethod) { pm.BillingDetails.Phone = "" }},
		{name: "missing address", mutate: func(pm *stripe.PaymentMethod) { pm.BillingDetails.Address = nil }},
		{name: "no billing details", mutate: func(pm *stripe.PaymentMethod) { pm.BillingDetails = nil }},
	}

	for _, tt := range tests {
		pm := completePaymentMethod()
		tt.mutate(pm)
		if err := svc.PropagateBillingDetails(context.Background(), 7, pm); err != nil {
			t.Fatalf("%s: expected silent no-op, got error %v", tt.name, err)
		}
	}
	if err := svc.PropagateBillingDetails(context.Background(), 7, nil); err != nil {
		t.Fatalf("nil payment method: expected silent no-op, got error %v", err)
	}

	if provider.updateCustomerCalls != 0 {
		t.Fatalf("expected no provider calls, got %d", provider.updateCustomerCalls)
	}
	if len(repo.users) != 0 {
		t.Fatal("expected no user writes")
	}
}

func TestPropagateBillingDetailsUnmappedUser(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.PropagateBillingDetails(context.Background(), 7, completePaymentMethod())
	if !errors.Is(err, ErrUnmappedCustomer) {
		t.Fatalf("expected ErrUnmappedCustomer, got %v", err)
	}
}
