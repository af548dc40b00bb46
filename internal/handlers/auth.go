package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/utils"
)

type AuthHandler struct {
	DB      *gorm.DB
	Session Session
}

type RegisterReq struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	IsRepairman bool   `json:"isRepairman"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := parseBody(c, &req); err != nil {
		return err
	}

	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)

	errs := httperr.FieldErrors{}
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) > 100 {
		errs.Add("username", "Username is too long")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	} else if len(password) < 6 {
		errs.Add("password", "Password must be at least 6 characters")
	} else if len(password) > utils.MaxPasswordBytes {
		errs.Add("password", "Password must be at most 72 bytes")
	}
	if len(errs) > 0 {
		return httperr.Validation(errs)
	}

	var existing models.User
	if err := h.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		errs.Add("username", "Username already exists")
		return httperr.Validation(errs)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	u := models.User{
		Username:     username,
		PasswordHash: pw,
		IsRepairman:  req.IsRepairman,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		if isUniqueViolation(err) {
			errs.Add("username", "Username already exists")
			return httperr.Validation(errs)
		}
		return err
	}

	if err := h.Session.Issue(c, &u); err != nil {
		return err
	}
	return created(c, "Registered", fiber.Map{"user": userResponse(&u)})
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := parseBody(c, &req); err != nil {
		return err
	}

	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)

	errs := httperr.FieldErrors{}
	if username == "" {
		errs.Add("username", "Username is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}
	if len(errs) > 0 {
		return httperr.Validation(errs)
	}

	var u models.User
	if err := h.DB.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.Unauthorized("Invalid username or password")
		}
		return err
	}
	if !utils.CheckPassword(u.PasswordHash, password) {
		return httperr.Unauthorized("Invalid username or password")
	}
	if u.IsBlocked {
		return httperr.Forbidden("Account is blocked")
	}

	if err := h.Session.Issue(c, &u); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged in",
		"data":    fiber.Map{"user": userResponse(&u)},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.Session.Clear(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out",
	})
}

// Me returns the session user.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.Unauthorized("Not authenticated")
		}
		return err
	}
	return ok(c, fiber.Map{"user": userResponse(&u)})
}
