package jobqueue

import (
	"context"

	"github.com/gofiber/fiber/v2/log"

	"github.com/streamnest/StreamNest/internal/pkg/billing"
	"github.com/streamnest/StreamNest/internal/pkg/database"
)

// processBillingResync re-syncs every stored subscription against the
// provider. The provider write and local write in the billing detail
// propagation are not atomic; this sweep is what heals the gap, so it must
// stay safe to run at any time against current provider state.
func processBillingResync(ctx context.Context, job *Job) error {
	svc := billing.NewServiceFromDB(database.GetDB())

	synced, err := svc.ResyncAllSubscriptions(ctx)
	if err != nil {
		log.Warnf("[JobQueue] Billing resync synced %d subscriptions, first error: %v", synced, err)
		return err
	}
	log.Infof("[JobQueue] Billing resync completed, %d subscriptions synced", synced)
	return nil
}
