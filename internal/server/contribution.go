package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	contributiondomain "github.com/smallbiznis/pensio/internal/contribution/domain"
)

type submitContributionRequest struct {
	MemberID         string  `json:"member_id"`
	Amount           float64 `json:"amount"`
	Type             string  `json:"type"`
	ContributionDate string  `json:"contribution_date"`
}

func (s *Server) SubmitContribution(c *gin.Context) {
	var req submitContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	contributionDate, err := parseOptionalTime(req.ContributionDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("contribution_date", "invalid_contribution_date", "invalid contribution_date"))
		return
	}

	resp, err := s.contributionSvc.Submit(c.Request.Context(), contributiondomain.SubmitContributionRequest{
		MemberID:         strings.TrimSpace(req.MemberID),
		Amount:           req.Amount,
		Type:             contributiondomain.ContributionType(strings.TrimSpace(req.Type)),
		ContributionDate: contributionDate,
	})
	if err != nil {
		// A payment decline still persisted the contribution as failed, so
		// the record ships with the error payload.
		if errors.Is(err, contributiondomain.ErrPaymentFailed) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"data": resp,
				"error": errorPayload{
					Type:    "payment_failed",
					Message: "payment failed",
				},
			})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetContributionByID(c *gin.Context) {
	resp, err := s.contributionSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMemberContributions(c *gin.Context) {
	resp, err := s.contributionSvc.ListByMember(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateContributionStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateContributionStatus(c *gin.Context) {
	var req updateContributionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status := contributiondomain.ContributionStatus(strings.TrimSpace(req.Status))
	if !status.Valid() {
		AbortWithError(c, newValidationError("status", "invalid_status", "invalid status"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if err := s.contributionSvc.UpdateStatus(c.Request.Context(), id, status); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "status": status}})
}

func (s *Server) DeleteContribution(c *gin.Context) {
	if err := s.contributionSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func isContributionValidationError(err error) bool {
	switch err {
	case contributiondomain.ErrInvalidAmount,
		contributiondomain.ErrInvalidType,
		contributiondomain.ErrInvalidID,
		contributiondomain.ErrVoluntaryOutOfRange:
		return true
	default:
		return false
	}
}
