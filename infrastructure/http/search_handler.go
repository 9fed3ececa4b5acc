package http

import (
	"net/http"

	"givelink/auth"
	"givelink/domain"
	"givelink/services"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type SearchHandler struct {
	search services.ISearchService
}

func NewSearchHandler(searchService services.ISearchService) *SearchHandler {
	return &SearchHandler{search: searchService}
}

// Search serves the matching flow: location and cause filters plus an
// optional free-text query, always against the caller's opposite role.
func (h *SearchHandler) Search(c *gin.Context) {
	cmd := domain.SearchCommand{
		Location: c.Query("location"),
		Cause:    c.Query("cause"),
		Text:     c.Query("q"),
	}

	results, err := h.search.Match(c.Request.Context(), auth.MustUserID(c), cmd)
	if err != nil {
		writeError(c, err)
		return
	}

	views := lo.Map(results, func(p domain.Profile, _ int) profileView {
		return toProfileView(p)
	})
	c.JSON(http.StatusOK, gin.H{"data": views})
}
