package entitlements

import (
	"strings"

	"github.com/streamnest/StreamNest/app/models"
)

type Plan string

const (
	PlanFree       Plan = "free"
	PlanPremium    Plan = "premium"
	PlanPremiumMax Plan = "premium_max"
)

// Normalize maps arbitrary plan strings onto a known plan, defaulting to free.
func Normalize(plan string) Plan {
	switch Plan(strings.ToLower(strings.TrimSpace(plan))) {
	case PlanPremium:
		return PlanPremium
	case PlanPremiumMax:
		return PlanPremiumMax
	default:
		return PlanFree
	}
}

// Rank orders plans so the best of several subscriptions wins.
func Rank(plan Plan) int {
	switch plan {
	case PlanPremiumMax:
		return 2
	case PlanPremium:
		return 1
	default:
		return 0
	}
}

// MaxQuality returns the highest stream quality a plan may play.
func MaxQuality(plan Plan) string {
	switch plan {
	case PlanPremiumMax:
		return models.VideoQualityUHD
	case PlanPremium:
		return models.VideoQualityHD
	default:
		return models.VideoQualitySD
	}
}

var qualityRank = map[string]int{
	models.VideoQualitySD:  0,
	models.VideoQualityHD:  1,
	models.VideoQualityUHD: 2,
}

// AllowedQuality clamps a requested quality to what the plan permits. Unknown
// requested values fall back to the plan ceiling.
func AllowedQuality(plan Plan, requested string) string {
	ceiling := MaxQuality(plan)
	reqRank, ok := qualityRank[requested]
	if !ok || reqRank > qualityRank[ceiling] {
		return ceiling
	}
	return requested
}
