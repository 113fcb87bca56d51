package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noelvk/taskpad-backend/internal/http/response"
	"github.com/noelvk/taskpad-backend/internal/pkg/apperror"
	"github.com/noelvk/taskpad-backend/internal/service"
	"github.com/noelvk/taskpad-backend/internal/validation"
)

// Декларативные схемы форм, по одной на маршрут.
var (
	registerSchema = validation.Schema{
		Required: []string{"name", "email", "password", "mobile_no"},
		Formats: map[string]validation.FieldFormat{
			"mobile_no": validation.ValidateMobile,
			"email":     validation.ValidateEmail,
		},
	}

	generateOTPSchema = validation.Schema{
		Required: []string{"mobile_no"},
		Formats: map[string]validation.FieldFormat{
			"mobile_no": validation.ValidateMobile,
		},
	}

	validateOTPSchema = validation.Schema{
		Required: []string{"mobile_no", "otp"},
		Formats: map[string]validation.FieldFormat{
			"mobile_no": validation.ValidateMobile,
			"otp":       validation.ValidateOTP,
		},
	}
)

// AuthHandler предоставляет HTTP слой регистрации и OTP аутентификации.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterUser обрабатывает POST /tasks/register_user.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	form, err := formParams(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid form payload")
		return
	}

	if err := registerSchema.Validate(form); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Username: form.Get("name"),
		Email:    form.Get("email"),
		Password: form.Get("password"),
		MobileNo: form.Get("mobile_no"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "User registered successfully", user)
}

// GenerateOTP обрабатывает POST /tasks/generate_otp. Принимает как форму,
// так и JSON тело.
func (h *AuthHandler) GenerateOTP(c *gin.Context) {
	mobile, ok := h.extractMobile(c)
	if !ok {
		return
	}

	code, err := h.auth.GenerateOTP(c.Request.Context(), mobile)
	if err != nil {
		// Незнакомый номер не считается транспортной ошибкой: ответ 200
		// с флагом неуспеха и без данных.
		if errors.Is(err, apperror.ErrOTPNotGenerated) {
			response.Fail(c, http.StatusOK, "otp not generated")
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "OTP generated successfully", gin.H{"otp": code})
}

// ValidateOTP обрабатывает GET /tasks/validate_otp.
func (h *AuthHandler) ValidateOTP(c *gin.Context) {
	form, err := formParams(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid form payload")
		return
	}

	if err := validateOTPSchema.Validate(form); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.auth.VerifyOTP(c.Request.Context(), form.Get("mobile_no"), form.Get("otp"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Mobile verified successfully", gin.H{
		"token":   result.Token,
		"user_id": result.User.ID,
	})
}

// extractMobile достаёт mobile_no из JSON или form тела.
func (h *AuthHandler) extractMobile(c *gin.Context) (string, bool) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req struct {
			MobileNo string `json:"mobile_no"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid JSON payload")
			return "", false
		}
		if err := validation.ValidateMobile(req.MobileNo); err != nil {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return "", false
		}
		return req.MobileNo, true
	}

	form, err := formParams(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid form payload")
		return "", false
	}
	if err := generateOTPSchema.Validate(form); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return "", false
	}

	return form.Get("mobile_no"), true
}
