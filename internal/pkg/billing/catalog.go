package billing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/streamnest/StreamNest/app/models"
	stripe "github.com/stripe/stripe-go/v74"
)

// UpsertProduct mirrors a provider product into the local catalog. Calling it
// twice with the same id converges to the last applied state.
func (s *Service) UpsertProduct(ctx context.Context, product *stripe.Product) error {
	_ = ctx
	if product == nil || strings.TrimSpace(product.ID) == "" {
		return errors.New("product id is required")
	}

	row := &models.BillingProduct{
		ID:          product.ID,
		Active:      product.Active,
		Name:        product.Name,
		Description: optionalString(product.Description),
		Metadata:    metadataJSON(product.Metadata),
	}
	if len(product.Images) > 0 {
		row.Image = optionalString(product.Images[0])
	}
	return s.repo.UpsertProduct(row)
}

// UpsertPrice mirrors a provider price into the local catalog. The product
// reference is taken from the provider object when it carries one and is
// recorded empty otherwise; a missing reference is never invented locally.
func (s *Service) UpsertPrice(ctx context.Context, price *stripe.Price) error {
	_ = ctx
	if price == nil || strings.TrimSpace(price.ID) == "" {
		return errors.New("price id is required")
	}

	productID := ""
	if price.Product != nil {
		productID = price.Product.ID
	}

	row := &models.BillingPrice{
		ID:          price.ID,
		ProductID:   productID,
		Active:      price.Active,
		Currency:    string(price.Currency),
		Description: optionalString(price.Nickname),
		Type:        string(price.Type),
		UnitAmount:  optionalInt64(price.UnitAmount),
		Metadata:    metadataJSON(price.Metadata),
	}
	if price.Recurring != nil {
		interval := string(price.Recurring.Interval)
		row.Interval = &interval
		row.IntervalCount = optionalInt64(price.Recurring.IntervalCount)
		row.TrialPeriodDays = optionalInt64(price.Recurring.TrialPeriodDays)
	}
	return s.repo.UpsertPrice(row)
}

func optionalString(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func optionalInt64(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

// metadataJSON serializes provider metadata for opaque storage. Nil maps
// become an empty object so the column round-trips cleanly.
func metadataJSON(metadata map[string]string) models.JSON {
	if len(metadata) == 0 {
		return models.JSON(`{}`)
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return models.JSON(`{}`)
	}
	return models.JSON(raw)
}

func priceMetadataValue(price *models.BillingPrice, key string) string {
	if price == nil || len(price.Metadata) == 0 {
		return ""
	}
	var metadata map[string]string
	if err := json.Unmarshal(price.Metadata, &metadata); err != nil {
		return ""
	}
	return metadata[key]
}
