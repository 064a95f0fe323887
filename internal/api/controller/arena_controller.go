package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"othello-arena/internal/api/response"
	"othello-arena/internal/repository"
)

// ArenaController serves archived games, fitted ratings and live standings.
type ArenaController struct {
	results   repository.ResultRepository
	ratings   repository.RatingRepository
	standings repository.StandingsRepository
}

// NewArenaController creates an ArenaController. standings may be nil when no
// Redis is configured; the live endpoint then reports unavailable.
func NewArenaController(results repository.ResultRepository, ratings repository.RatingRepository, standings repository.StandingsRepository) *ArenaController {
	return &ArenaController{
		results:   results,
		ratings:   ratings,
		standings: standings,
	}
}

// ListGames handles GET /api/games.
func (ac *ArenaController) ListGames(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		response.ErrorResponse(c, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	games, err := ac.results.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessResponse(c, gin.H{"games": games})
}

// GetGame handles GET /api/games/:id.
func (ac *ArenaController) GetGame(c *gin.Context) {
	rec, err := ac.results.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		response.ErrorResponse(c, http.StatusNotFound, "game not found")
		return
	}
	response.SuccessResponse(c, rec)
}

// ListRatings handles GET /api/ratings.
func (ac *ArenaController) ListRatings(c *gin.Context) {
	ratings, err := ac.ratings.List(c.Request.Context())
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessResponse(c, gin.H{"ratings": ratings})
}

// LiveStandings handles GET /api/standings.
func (ac *ArenaController) LiveStandings(c *gin.Context) {
	if ac.standings == nil {
		response.ErrorResponse(c, http.StatusServiceUnavailable, "live standings require redis")
		return
	}
	points, err := ac.standings.Snapshot(c.Request.Context())
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessResponse(c, gin.H{"points": points})
}

// Health handles GET /healthz.
func (ac *ArenaController) Health(c *gin.Context) {
	response.SuccessResponse(c, gin.H{"status": "ok"})
}
