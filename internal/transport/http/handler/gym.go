package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/usecase"
	"github.com/gin-gonic/gin"
)

type gymUsecaser interface {
	CreateGym(ctx context.Context, input usecase.CreateGymInput) (*domain.Gym, error)
	FetchNearbyGyms(ctx context.Context, input usecase.FetchNearbyGymsInput) ([]*domain.Gym, error)
	SearchGyms(ctx context.Context, input usecase.SearchGymsInput) ([]*domain.Gym, error)
}

type GymHandler struct {
	gymUsecase gymUsecaser
	logger     *slog.Logger
}

func NewGymHandler(gymUsecase gymUsecaser, logger *slog.Logger) *GymHandler {
	return &GymHandler{gymUsecase: gymUsecase, logger: logger.With("component", "gym_handler")}
}

type createGymRequest struct {
	Title       string   `json:"title"       binding:"required"`
	Description *string  `json:"description"`
	Phone       *string  `json:"phone"`
	Latitude    *float64 `json:"latitude"    binding:"required,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude"   binding:"required,gte=-180,lte=180"`
}

type searchGymsQuery struct {
	Query string `form:"query"`
	Page  int    `form:"page,default=1" binding:"min=1"`
}

type nearbyGymsQuery struct {
	Latitude  *float64 `form:"latitude"  binding:"required,gte=-90,lte=90"`
	Longitude *float64 `form:"longitude" binding:"required,gte=-180,lte=180"`
}

type gymResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func toGymResponses(gyms []*domain.Gym) []gymResponse {
	out := make([]gymResponse, 0, len(gyms))
	for _, g := range gyms {
		out = append(out, gymResponse{
			ID:          g.ID,
			Title:       g.Title,
			Description: g.Description,
			Phone:       g.Phone,
			Latitude:    g.Latitude,
			Longitude:   g.Longitude,
		})
	}
	return out
}

// POST /gyms
func (h *GymHandler) Create(c *gin.Context) {
	var req createGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	gym, err := h.gymUsecase.CreateGym(c.Request.Context(), usecase.CreateGymInput{
		Title:       req.Title,
		Description: req.Description,
		Phone:       req.Phone,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
	})
	if err != nil {
		respondError(c, h.logger, "create gym", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"gym": toGymResponses([]*domain.Gym{gym})[0]})
}

// GET /gyms/search?query=&page=
func (h *GymHandler) Search(c *gin.Context) {
	var q searchGymsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondInvalid(c, err)
		return
	}

	gyms, err := h.gymUsecase.SearchGyms(c.Request.Context(), usecase.SearchGymsInput{Query: q.Query, Page: q.Page})
	if err != nil {
		respondError(c, h.logger, "search gyms", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gyms": toGymResponses(gyms)})
}

// GET /gyms/nearby?latitude=&longitude=
func (h *GymHandler) Nearby(c *gin.Context) {
	var q nearbyGymsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondInvalid(c, err)
		return
	}

	gyms, err := h.gymUsecase.FetchNearbyGyms(c.Request.Context(), usecase.FetchNearbyGymsInput{
		UserLatitude:  *q.Latitude,
		UserLongitude: *q.Longitude,
	})
	if err != nil {
		respondError(c, h.logger, "fetch nearby gyms", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gyms": toGymResponses(gyms)})
}
