package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/verte-zerg/typedesk/internal/model"
	"github.com/verte-zerg/typedesk/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type historyResponse struct {
	Data  []model.Record `json:"data"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			abortWith(c, validationError(describe(verrs)))
			return
		}
		abortWith(c, badRequest("malformed result: "+err.Error()))
		return
	}
	res := req.result()
	res.FinishedAt = s.now()

	id, err := s.store.InsertResult(c.Request.Context(), res)
	if errors.Is(err, store.ErrDuplicate) {
		abortWith(c, conflict("result already submitted"))
		return
	}
	if err != nil {
		s.log.Error("failed to store result", zap.String("text_id", res.TextID), zap.Error(err))
		abortWith(c, internal("failed to store result"))
		return
	}
	s.log.Info("result stored",
		zap.Int64("id", id),
		zap.String("text_id", res.TextID),
		zap.String("subject", res.SubjectID),
		zap.Int("wpm", res.WPM),
		zap.Float64("marks", res.Marks),
	)
	c.JSON(http.StatusCreated, gin.H{"id": id, "textId": res.TextID})
}

func (s *Server) stats(c *gin.Context) {
	sum, err := s.store.Summary(c.Request.Context(), c.Query("subjectId"))
	if err != nil {
		s.log.Error("failed to summarize results", zap.Error(err))
		abortWith(c, internal("failed to load stats"))
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) history(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	filter := model.HistoryFilter{SubjectID: c.Query("subjectId"), Page: page, Limit: limit}

	ctx := c.Request.Context()
	records, err := s.store.ListResults(ctx, filter)
	if err != nil {
		s.log.Error("failed to list results", zap.Error(err))
		abortWith(c, internal("failed to load history"))
		return
	}
	total, err := s.store.CountResults(ctx, filter)
	if err != nil {
		s.log.Error("failed to count results", zap.Error(err))
		abortWith(c, internal("failed to load history"))
		return
	}
	c.JSON(http.StatusOK, historyResponse{Data: records, Page: page, Limit: limit, Total: total})
}

func (s *Server) detail(c *gin.Context) {
	rec, err := s.store.GetResult(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		abortWith(c, notFound("result"))
		return
	}
	if err != nil {
		s.log.Error("failed to load result", zap.String("text_id", c.Param("id")), zap.Error(err))
		abortWith(c, internal("failed to load result"))
		return
	}
	c.JSON(http.StatusOK, rec)
}
