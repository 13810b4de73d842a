package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/email"
	"github.com/ErlanBelekov/gym-checkin/internal/metrics"
	"github.com/ErlanBelekov/gym-checkin/internal/password"
	"github.com/ErlanBelekov/gym-checkin/internal/transport/http/middleware"
	"github.com/ErlanBelekov/gym-checkin/internal/usecase"
	"github.com/gin-gonic/gin"
)

const welcomeEmailTimeout = 5 * time.Second

// userUsecaser is the subset of UserUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type userUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
}

type tokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

type UserHandler struct {
	userUsecase userUsecaser
	tokens      tokenIssuer
	mailer      email.Sender
	logger      *slog.Logger
}

func NewUserHandler(userUsecase userUsecaser, tokens tokenIssuer, mailer email.Sender, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		tokens:      tokens,
		mailer:      mailer,
		logger:      logger.With("component", "user_handler"),
	}
}

type registerRequest struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type sessionRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type userResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

// POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	// the binding's max counts characters; bcrypt limits bytes
	if len(req.Password) > password.MaxBytes {
		respondInvalid(c, password.ErrTooLong)
		return
	}

	user, err := h.userUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, "register user", err)
		return
	}
	metrics.RegistrationsTotal.Inc()

	h.sendWelcome(c.Request.Context(), user)

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// A failed welcome email never fails the registration.
func (h *UserHandler) sendWelcome(ctx context.Context, user *domain.User) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), welcomeEmailTimeout)
	defer cancel()

	subject, body := email.Welcome(user.Name)
	if err := h.mailer.Send(ctx, user.Email, subject, body); err != nil {
		h.logger.WarnContext(ctx, "send welcome email", "user_id", user.ID, "error", err)
	}
}

// POST /sessions
// Returns {"token": "<jwt>"} on success.
func (h *UserHandler) Authenticate(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	user, err := h.userUsecase.Authenticate(c.Request.Context(), usecase.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthenticationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		} else {
			metrics.AuthenticationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		}
		respondError(c, h.logger, "authenticate user", err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		metrics.AuthenticationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		respondError(c, h.logger, "issue token", err)
		return
	}
	metrics.AuthenticationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GET /me
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.userUsecase.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, "get profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}
