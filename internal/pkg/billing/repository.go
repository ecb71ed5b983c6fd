package billing

import (
	"time"

	"github.com/streamnest/StreamNest/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the billing service. Every upsert
// is an insert-or-replace by primary key so concurrent duplicate deliveries
// converge instead of corrupting.
type Repository interface {
	UpsertProduct(product *models.BillingProduct) error
	UpsertPrice(price *models.BillingPrice) error
	GetPrice(id string) (*models.BillingPrice, error)
	GetCustomerByUserID(userID uint) (*models.BillingCustomer, error)
	GetCustomerByProviderID(providerCustomerID string) (*models.BillingCustomer, error)
	SaveCustomerMapping(customer *models.BillingCustomer) error
	UpsertSubscription(sub *models.BillingSubscription) error
	ListSubscriptionsByUser(userID uint) ([]models.BillingSubscription, error)
	ListSubscriptions() ([]models.BillingSubscription, error)
	UpdateUserBillingInfo(userID uint, billingAddress, paymentMethod models.JSON) error
	GetOrCreateUserSettings(userID uint) (*models.UserSettings, error)
	SaveUserSettings(us *models.UserSettings) error
	CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) UpsertProduct(product *models.BillingProduct) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"active",
			"name",
			"description",
			"image",
			"metadata",
			"updated_at",
		}),
	}).Create(product).Error
}

func (r *gormRepository) UpsertPrice(price *models.BillingPrice) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"product_id",
			"active",
			"currency",
			"description",
			"type",
			"unit_amount",
			"interval",
			"interval_count",
			"trial_period_days",
			"metadata",
			"updated_at",
		}),
	}).Create(price).Error
}

func (r *gormRepository) GetPrice(id string) (*models.BillingPrice, error) {
	var price models.BillingPrice
	if err := r.db.Where("id = ?", id).First(&price).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *gormRepository) GetCustomerByUserID(userID uint) (*models.BillingCustomer, error) {
	var customer models.BillingCustomer
	if err := r.db.Where("user_id = ?", userID).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *gormRepository) GetCustomerByProviderID(providerCustomerID string) (*models.BillingCustomer, error) {
	var customer models.BillingCustomer
	if err := r.db.Where("provider_customer_id = ?", providerCustomerID).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *gormRepository) SaveCustomerMapping(customer *models.BillingCustomer) error {
	// The unique keys on user_id and provider_customer_id turn the
	// read-then-create race into a convergent overwrite instead of a
	// duplicate row. A second provider-side customer can still be minted in
	// the race window; the mapping keeps exactly one of them.
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"provider_customer_id",
			"updated_at",
		}),
	}).Create(customer).Error
}

func (r *gormRepository) UpsertSubscription(sub *models.BillingSubscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"price_id",
			"status",
			"quantity",
			"cancel_at_period_end",
			"cancel_at",
			"canceled_at",
			"current_period_start",
			"current_period_end",
			"created",
			"ended_at",
			"trial_start",
			"trial_end",
			"metadata",
			"updated_at",
		}),
	}).Create(sub).Error
}

func (r *gormRepository) ListSubscriptionsByUser(userID uint) ([]models.BillingSubscription, error) {
	var subs []models.BillingSubscription
	err := r.db.Where("user_id = ?", userID).Find(&subs).Error
	return subs, err
}

func (r *gormRepository) ListSubscriptions() ([]models.BillingSubscription, error) {
	var subs []models.BillingSubscription
	err := r.db.Find(&subs).Error
	return subs, err
}

func (r *gormRepository) UpdateUserBillingInfo(userID uint, billingAddress, paymentMethod models.JSON) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"billing_address": billingAddress,
		"payment_method":  paymentMethod,
	}).Error
}

func (r *gormRepository) GetOrCreateUserSettings(userID uint) (*models.UserSettings, error) {
	return models.GetOrCreateUserSettings(r.db, userID)
}

func (r *gormRepository) SaveUserSettings(us *models.UserSettings) error {
	return r.db.Save(us).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.BillingWebhookEvent
	if err := r.db.Where("provider_event_id = ?", event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.BillingWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
