package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/streamnest/StreamNest/app/models"
	stripe "github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"
)

// fakeRepository is an in-memory Repository for exercising the service
// without a database.
type fakeRepository struct {
	products      map[string]*models.BillingProduct
	prices        map[string]*models.BillingPrice
	customers     map[uint]*models.BillingCustomer
	subscriptions map[string]*models.BillingSubscription
	settings      map[uint]*models.UserSettings
	webhookEvents map[string]*models.BillingWebhookEvent
	users         map[uint]*models.User

	nextEventID uint

	failGetCustomer error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		products:      map[string]*models.BillingProduct{},
		prices:        map[string]*models.BillingPrice{},
		customers:     map[uint]*models.BillingCustomer{},
		subscriptions: map[string]*models.BillingSubscription{},
		settings:      map[uint]*models.UserSettings{},
		webhookEvents: map[string]*models.BillingWebhookEvent{},
		users:         map[uint]*models.User{},
	}
}

func (r *fakeRepository) UpsertProduct(product *models.BillingProduct) error {
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeRepository) UpsertPrice(price *models.BillingPrice) error {
	cp := *price
	r.prices[price.ID] = &cp
	return nil
}

func (r *fakeRepository) GetPrice(id string) (*models.BillingPrice, error) {
	price, ok := r.prices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return price, nil
}

func (r *fakeRepository) GetCustomerByUserID(userID uint) (*models.BillingCustomer, error) {
	if r.failGetCustomer != nil {
		return nil, r.failGetCustomer
	}
	customer, ok := r.customers[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (r *fakeRepository) GetCustomerByProviderID(providerCustomerID string) (*models.BillingCustomer, error) {
	for _, customer := range r.customers {
		if customer.ProviderCustomerID == providerCustomerID {
			return customer, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepository) SaveCustomerMapping(customer *models.BillingCustomer) error {
	cp := *customer
	r.customers[customer.UserID] = &cp
	return nil
}

func (r *fakeRepository) UpsertSubscription(sub *models.BillingSubscription) error {
	cp := *sub
	r.subscriptions[sub.ID] = &cp
	return nil
}

func (r *fakeRepository) ListSubscriptionsByUser(userID uint) ([]models.BillingSubscription, error) {
	var subs []models.BillingSubscription
	for _, sub := range r.subscriptions {
		if sub.UserID == userID {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}

func (r *fakeRepository) ListSubscriptions() ([]models.BillingSubscription, error) {
	var subs []models.BillingSubscription
	for _, sub := range r.subscriptions {
		subs = append(subs, *sub)
	}
	return subs, nil
}

func (r *fakeRepository) UpdateUserBillingInfo(userID uint, billingAddress, paymentMethod models.JSON) error {
	user, ok := r.users[userID]
	if !ok {
		user = &models.User{}
		user.ID = userID
		r.users[userID] = user
	}
	user.BillingAddress = billingAddress
	user.PaymentMethod = paymentMethod
	return nil
}

func (r *fakeRepository) GetOrCreateUserSettings(userID uint) (*models.UserSettings, error) {
	us, ok := r.settings[userID]
	if !ok {
		us = &models.UserSettings{UserID: userID, Plan: "free"}
		r.settings[userID] = us
	}
	return us, nil
}

func (r *fakeRepository) SaveUserSettings(us *models.UserSettings) error {
	r.settings[us.UserID] = us
	return nil
}

func (r *fakeRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	if stored, ok := r.webhookEvents[event.ProviderEventID]; ok {
		return false, stored, nil
	}
	r.nextEventID++
	cp := *event
	cp.ID = r.nextEventID
	r.webhookEvents[event.ProviderEventID] = &cp
	return true, &cp, nil
}

func (r *fakeRepository) MarkWebhookProcessed(id uint, processingError string) error {
	for _, event := range r.webhookEvents {
		if event.ID == id {
			now := time.Now()
			event.ProcessedAt = &now
			event.ProcessingError = processingError
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// fakeProvider is a scripted ProviderAPI.
type fakeProvider struct {
	subscriptions map[string]*stripe.Subscription

	createCustomerCalls int
	createdMetadata     map[string]string
	updateCustomerCalls int
	lastUpdate          CustomerBillingUpdate
	lastUpdatedID       string

	failCreateCustomer error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{subscriptions: map[string]*stripe.Subscription{}}
}

func (p *fakeProvider) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (*stripe.Customer, error) {
	if p.failCreateCustomer != nil {
		return nil, p.failCreateCustomer
	}
	p.createCustomerCalls++
	p.createdMetadata = metadata
	return &stripe.Customer{ID: fmt.Sprintf("cus_fake_%d", p.createCustomerCalls), Email: email}, nil
}

func (p *fakeProvider) RetrieveSubscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	sub, ok := p.subscriptions[id]
	if !ok {
		return nil, errors.New("subscription not found at provider")
	}
	return sub, nil
}

func (p *fakeProvider) UpdateCustomer(ctx context.Context, id string, update CustomerBillingUpdate) (*stripe.Customer, error) {
	p.updateCustomerCalls++
	p.lastUpdatedID = id
	p.lastUpdate = update
	return &stripe.Customer{ID: id}, nil
}

func newTestService() (*Service, *fakeRepository, *fakeProvider) {
	repo := newFakeRepository()
	provider := newFakeProvider()
	return NewService(repo, provider), repo, provider
}

// providerSubscription builds a minimal provider subscription object the way
// webhook refetches return them.
func providerSubscription(id, customerID, priceID string, status stripe.SubscriptionStatus) *stripe.Subscription {
	return &stripe.Subscription{
		ID:       id,
		Customer: &stripe.Customer{ID: customerID},
		Status:   status,
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{Price: &stripe.Price{ID: priceID}},
			},
		},
		CurrentPeriodStart: 1700000000,
		CurrentPeriodEnd:   1702592000,
		Created:            1700000000,
	}
}
