package billing

import (
	"context"

	"github.com/streamnest/StreamNest/internal/pkg/env"
	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

// ProviderAPI is the outbound surface to the payment provider. The interface
// exists so the reconciliation core can be exercised without network access.
type ProviderAPI interface {
	CreateCustomer(ctx context.Context, email string, metadata map[string]string) (*stripe.Customer, error)
	RetrieveSubscription(ctx context.Context, id string) (*stripe.Subscription, error)
	UpdateCustomer(ctx context.Context, id string, update CustomerBillingUpdate) (*stripe.Customer, error)
}

// CustomerBillingUpdate carries the confirmed billing details written back to
// the provider-side customer.
type CustomerBillingUpdate struct {
	Name    string
	Phone   string
	Address *stripe.AddressParams
}

// StripeAPI implements ProviderAPI against the Stripe REST API.
type StripeAPI struct {
	client *client.API
}

// NewStripeAPI creates a Stripe-backed provider client with the given secret key.
func NewStripeAPI(apiKey string) *StripeAPI {
	c := &client.API{}
	c.Init(apiKey, nil)
	return &StripeAPI{client: c}
}

// NewStripeAPIFromEnv creates a Stripe client configured from STRIPE_SECRET_KEY.
func NewStripeAPIFromEnv() *StripeAPI {
	return NewStripeAPI(env.GetEnv("STRIPE_SECRET_KEY", ""))
}

func (a *StripeAPI) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
	}
	// An empty email must be omitted entirely, not sent as "".
	if email != "" {
		params.Email = stripe.String(email)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	return a.client.Customers.New(params)
}

func (a *StripeAPI) RetrieveSubscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{
		Params: stripe.Params{Context: ctx},
	}
	// One round trip: the payment method is needed by the billing detail
	// propagation on creation events.
	params.AddExpand("default_payment_method")
	return a.client.Subscriptions.Get(id, params)
}

func (a *StripeAPI) UpdateCustomer(ctx context.Context, id string, update CustomerBillingUpdate) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{
		Params:  stripe.Params{Context: ctx},
		Name:    stripe.String(update.Name),
		Phone:   stripe.String(update.Phone),
		Address: update.Address,
	}
	return a.client.Customers.Update(id, params)
}

// VerifyWebhookSignature checks the provider signature header and returns the
// parsed event. The webhook secret comes from STRIPE_WEBHOOK_SECRET.
func VerifyWebhookSignature(payload []byte, signatureHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signatureHeader, env.GetEnv("STRIPE_WEBHOOK_SECRET", ""))
}
