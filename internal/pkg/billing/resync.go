package billing

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ResyncAllSubscriptions re-fetches provider state for every stored
// subscription and replaces the local rows. This is the compensating sweep
// for the billing detail propagator's two-step write and for any event the
// delivery layer ultimately gave up on.
//
// Individual subscription failures do not stop the sweep; the first error is
// returned after completion so the caller can reschedule.
func (s *Service) ResyncAllSubscriptions(ctx context.Context) (int, error) {
	subs, err := s.repo.ListSubscriptions()
	if err != nil {
		return 0, err
	}

	synced := 0
	var firstErr error
	for _, sub := range subs {
		mapping, err := s.repo.GetCustomerByUserID(sub.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = ErrUnmappedCustomer
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := s.SyncSubscription(ctx, sub.ID, mapping.ProviderCustomerID, false); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		synced++
	}
	return synced, firstErr
}
