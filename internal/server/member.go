package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	memberdomain "github.com/smallbiznis/pensio/internal/member/domain"
)

type createMemberRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	DateOfBirth string `json:"date_of_birth"`
}

func (s *Server) CreateMember(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		AbortWithError(c, newValidationError("date_of_birth", "invalid_date_of_birth", "invalid date_of_birth"))
		return
	}

	resp, err := s.memberSvc.Create(c.Request.Context(), memberdomain.CreateMemberRequest{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.TrimSpace(req.Email),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		DateOfBirth: dob,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateMember(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		AbortWithError(c, newValidationError("date_of_birth", "invalid_date_of_birth", "invalid date_of_birth"))
		return
	}

	resp, err := s.memberSvc.Update(c.Request.Context(), memberdomain.UpdateMemberRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.TrimSpace(req.Email),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		DateOfBirth: dob,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMemberByID(c *gin.Context) {
	resp, err := s.memberSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMembers(c *gin.Context) {
	resp, err := s.memberSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteMember(c *gin.Context) {
	if err := s.memberSvc.SoftDelete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func isMemberValidationError(err error) bool {
	switch err {
	case memberdomain.ErrInvalidName,
		memberdomain.ErrInvalidEmail,
		memberdomain.ErrInvalidDateOfBirth,
		memberdomain.ErrAgeOutOfRange,
		memberdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
