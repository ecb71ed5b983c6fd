package entitlements

import (
	"fmt"
	"time"

	"github.com/streamnest/StreamNest/app/models"
	"github.com/streamnest/StreamNest/internal/pkg/cache"
	"github.com/streamnest/StreamNest/internal/pkg/database"
)

const planCacheTTL = 5 * time.Minute

func planCacheKey(userID uint) string {
	return fmt.Sprintf("user:%d:plan", userID)
}

// EffectivePlan returns the user's current plan, preferring the cache and
// falling back to user settings. Billing sync writes the settings row; this
// is read-only.
func EffectivePlan(userID uint) Plan {
	if val, err := cache.Get(planCacheKey(userID)); err == nil && val != "" {
		return Normalize(val)
	}

	us, err := models.GetOrCreateUserSettings(database.GetDB(), userID)
	if err != nil {
		return PlanFree
	}
	plan := Normalize(us.Plan)
	_ = cache.Set(planCacheKey(userID), string(plan), planCacheTTL)
	return plan
}

// InvalidatePlan drops the cached plan after a billing sync may have changed it.
func InvalidatePlan(userID uint) {
	_ = cache.Delete(planCacheKey(userID))
}
