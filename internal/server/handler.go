package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/bornholm/searchbar/internal/logx"
	"github.com/bornholm/searchbar/pkg/search"
	"github.com/bornholm/searchbar/pkg/searchbar"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type searchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(c *gin.Context) {
	ctx := c.Request.Context()

	doc, err := searchbar.NewDocument()
	if err != nil {
		s.abortWithError(c, errors.WithStack(err))
		return
	}

	if query, exists := c.GetQuery("q"); exists {
		ctx = logx.WithAttrs(ctx, slog.String("query", query))

		doc.SetQuery(query)
		s.newDispatcher(doc).Dispatch(ctx)
	}

	markup, err := doc.HTML()
	if err != nil {
		s.abortWithError(c, errors.WithStack(err))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markup))
}

func (s *Server) handleSearchRedirect(c *gin.Context) {
	target := "/"
	if c.Request.URL.RawQuery != "" {
		target += "?" + c.Request.URL.RawQuery
	}

	c.Redirect(http.StatusFound, target)
}

func (s *Server) handleAPISearch(c *gin.Context) {
	ctx := c.Request.Context()

	query := strings.TrimSpace(c.Query("q"))

	limit := s.opts.Limit
	if rawLimit := c.Query("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 || parsed > maxLimit {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be an integer between 1 and " + strconv.Itoa(maxLimit)})
			return
		}

		limit = parsed
	}

	if query == "" {
		c.JSON(http.StatusOK, searchResponse{Query: query, Results: []search.Result{}})
		return
	}

	ctx = logx.WithAttrs(ctx, slog.String("query", query))

	results, err := s.client.Search(ctx, query, limit)
	if err != nil {
		slog.ErrorContext(ctx, "search failed", slog.Any("error", errors.WithStack(err)))
		c.JSON(http.StatusBadGateway, errorResponse{Error: "search failed"})
		return
	}

	if results == nil {
		results = []search.Result{}
	}

	c.JSON(http.StatusOK, searchResponse{Query: query, Results: results})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "could not handle request", slog.Any("error", err))
	c.AbortWithStatus(http.StatusInternalServerError)
}
