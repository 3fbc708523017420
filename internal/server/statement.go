package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetMemberEligibility(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	eligible, err := s.eligibilitySvc.IsEligible(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"member_id": id,
		"eligible":  eligible,
	}})
}

func (s *Server) GetMemberTotal(c *gin.Context) {
	resp, err := s.statementSvc.Total(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type statementQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

func (s *Server) GetMemberStatement(c *gin.Context) {
	start, end, ok := s.bindStatementRange(c)
	if !ok {
		return
	}

	resp, err := s.statementSvc.Statement(c.Request.Context(), strings.TrimSpace(c.Param("id")), start, end)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DownloadMemberStatement(c *gin.Context) {
	start, end, ok := s.bindStatementRange(c)
	if !ok {
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	doc, err := s.statementSvc.Render(c.Request.Context(), id, start, end)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("statement-%s-%s-%s.pdf", id, start.Format(dateOnlyLayout), end.Format(dateOnlyLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (s *Server) bindStatementRange(c *gin.Context) (start, end time.Time, ok bool) {
	var query statementQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return start, end, false
	}

	startPtr, err := parseOptionalTime(query.StartDate, false)
	if err != nil || startPtr == nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return start, end, false
	}

	endPtr, err := parseOptionalTime(query.EndDate, true)
	if err != nil || endPtr == nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
		return start, end, false
	}

	if endPtr.Before(*startPtr) {
		AbortWithError(c, newValidationError("end_date", "invalid_range", "end_date precedes start_date"))
		return start, end, false
	}

	return *startPtr, *endPtr, true
}
