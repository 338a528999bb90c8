package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/app/services"
	"github.com/cchuang/regent/internal/middleware"
)

// SearchController handles cross-entity search and autocomplete
type SearchController struct {
	searchService *services.SearchService
}

// NewSearchController creates a new SearchController
func NewSearchController(searchService *services.SearchService) *SearchController {
	return &SearchController{searchService: searchService}
}

// Search runs a query across students, teachers and classes
// @Summary Search students, teachers and classes
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Param type query string false "Restrict to one category: student, teacher or class"
// @Success 200 {object} dto.APIResponse{data=dto.SearchResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing query"
// @Router /search/api [get]
func (c *SearchController) Search(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	resp, err := c.searchService.Search(ctx, identity, ctx.Query("q"), ctx.Query("type"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// Suggestions returns autocomplete entries for a partial query
// @Summary Autocomplete suggestions
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param q query string true "Partial query, at least two characters"
// @Success 200 {object} dto.APIResponse{data=[]dto.Suggestion}
// @Router /search/suggestions [get]
func (c *SearchController) Suggestions(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	suggestions, err := c.searchService.Suggestions(ctx, identity, ctx.Query("q"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      suggestions,
		Timestamp: time.Now(),
	})
}
