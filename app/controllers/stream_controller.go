package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/streamnest/StreamNest/app/models"
	"github.com/streamnest/StreamNest/internal/pkg/database"
	"github.com/streamnest/StreamNest/internal/pkg/entitlements"
	"github.com/streamnest/StreamNest/internal/pkg/usercontext"
)

// HandleVideoPlayback authorizes playback for a video and returns the
// manifest descriptor with the quality ceiling the viewer's plan allows.
func HandleVideoPlayback(c *fiber.Ctx) error {
	videoUUID := c.Params("uuid")
	if videoUUID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "uuid missing"})
	}

	db := database.GetDB()
	var video models.Video
	if err := db.Where("uuid = ?", videoUUID).First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "video_not_found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "video_lookup_failed"})
	}

	userCtx := usercontext.GetUserContext(c)
	if !video.IsPublic && video.UserID != userCtx.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	plan := entitlements.PlanFree
	if userCtx.IsLoggedIn {
		plan = entitlements.EffectivePlan(userCtx.UserID)
	}
	quality := entitlements.AllowedQuality(plan, video.MaxQuality)

	_ = video.IncrementViewCount(db)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"uuid":        video.UUID,
		"manifest":    video.ManifestPath,
		"max_quality": quality,
		"plan":        string(plan),
	})
}
