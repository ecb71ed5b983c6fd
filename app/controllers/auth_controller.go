package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/streamnest/StreamNest/app/models"
	"github.com/streamnest/StreamNest/internal/pkg/database"
	"github.com/streamnest/StreamNest/internal/pkg/session"
)

const (
	AUTH_KEY      string = "authenticated"
	USER_ID       string = "user_id"
	USER_NAME     string = "username"
	USER_EMAIL    string = "user_email"
	USER_IS_ADMIN string = "isAdmin"
)

// HandleAPILogin authenticates a user by email and password and opens a
// session. Login failures are reported without detail on purpose.
func HandleAPILogin(c *fiber.Ctx) error {
	var user models.User

	result := database.GetDB().Where("email = ?", c.FormValue("email")).First(&user)
	if result.Error != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "login_failed",
			"message": "There is a problem with the login process",
		})
	}

	if models.CheckPasswordHash(c.FormValue("password"), user.Password) == false {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "login_failed",
			"message": "There is a problem with the login process",
		})
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "session_unavailable",
		})
	}

	sess.Set(AUTH_KEY, true)
	sess.Set(USER_ID, user.ID)
	sess.Set(USER_NAME, user.Name)
	sess.Set(USER_EMAIL, user.Email)
	sess.Set(USER_IS_ADMIN, user.Role == "admin")

	if err := sess.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "session_unavailable",
		})
	}

	database.GetDB().Model(&user).Update("last_login_at", time.Now())

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":       true,
		"username": user.Name,
	})
}

// HandleAPILogout destroys the current session.
func HandleAPILogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	}

	if err := sess.Destroy(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "logout_failed",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}
