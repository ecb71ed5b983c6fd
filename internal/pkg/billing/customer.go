package billing

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/streamnest/StreamNest/app/models"
	"gorm.io/gorm"
)

// Metadata key stamped on provider-side customers for reverse lookup and audit.
const customerMetadataUserIDKey = "local_user_id"

// ResolveCustomer maps a local user to the provider customer id, creating the
// provider-side customer on first use. A mapping that already carries an id
// is returned without any provider call.
//
// Only a tagged not-found triggers creation. Any other lookup failure aborts,
// so a transient read fault cannot mint a duplicate provider customer.
func (s *Service) ResolveCustomer(ctx context.Context, userID uint, email string) (string, error) {
	if userID == 0 {
		return "", errors.New("user_id is required")
	}

	existing, err := s.repo.GetCustomerByUserID(userID)
	if err == nil && existing.ProviderCustomerID != "" {
		return existing.ProviderCustomerID, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	metadata := map[string]string{
		customerMetadataUserIDKey: strconv.FormatUint(uint64(userID), 10),
	}
	created, err := s.provider.CreateCustomer(ctx, strings.TrimSpace(email), metadata)
	if err != nil {
		return "", err
	}

	mapping := &models.BillingCustomer{
		UserID:             userID,
		ProviderCustomerID: created.ID,
	}
	if err := s.repo.SaveCustomerMapping(mapping); err != nil {
		return "", err
	}
	return created.ID, nil
}
