package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/streamnest/StreamNest/app/models"
	stripe "github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"
)

// PropagateBillingDetails copies confirmed billing details from a provider
// payment method back onto the provider customer and the local user record.
// Payment methods without name, phone and address (card-only flows) are a
// silent no-op, not a failure.
//
// The provider write and the local write are two separate steps. A local
// failure after a successful provider write leaves a documented inconsistency
// that only the reconcile sweep repairs.
func (s *Service) PropagateBillingDetails(ctx context.Context, userID uint, paymentMethod *stripe.PaymentMethod) error {
	if userID == 0 {
		return errors.New("user_id is required")
	}
	if paymentMethod == nil || paymentMethod.BillingDetails == nil {
		return nil
	}

	details := paymentMethod.BillingDetails
	if details.Name == "" || details.Phone == "" || details.Address == nil {
		return nil
	}

	mapping, err := s.repo.GetCustomerByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrUnmappedCustomer, userID)
		}
		return err
	}

	if _, err := s.provider.UpdateCustomer(ctx, mapping.ProviderCustomerID, CustomerBillingUpdate{
		Name:  details.Name,
		Phone: details.Phone,
		Address: &stripe.AddressParams{
			City:       stripe.String(details.Address.City),
			Country:    stripe.String(details.Address.Country),
			Line1:      stripe.String(details.Address.Line1),
			Line2:      stripe.String(details.Address.Line2),
			PostalCode: stripe.String(details.Address.PostalCode),
			State:      stripe.String(details.Address.State),
		},
	}); err != nil {
		return err
	}

	addressJSON, err := json.Marshal(details.Address)
	if err != nil {
		return err
	}
	methodJSON, err := paymentMethodDetailsJSON(paymentMethod)
	if err != nil {
		return err
	}
	return s.repo.UpdateUserBillingInfo(userID, models.JSON(addressJSON), methodJSON)
}

// paymentMethodDetailsJSON extracts the provider-type-keyed detail blob from
// a payment method, e.g. {"card": {...}} for card payment methods.
func paymentMethodDetailsJSON(paymentMethod *stripe.PaymentMethod) (models.JSON, error) {
	raw, err := json.Marshal(paymentMethod)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	detail, ok := fields[string(paymentMethod.Type)]
	if !ok {
		return models.JSON(`{}`), nil
	}
	keyed, err := json.Marshal(map[string]json.RawMessage{string(paymentMethod.Type): detail})
	if err != nil {
		return nil, err
	}
	return models.JSON(keyed), nil
}
