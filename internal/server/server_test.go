package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/pensio/internal/config"
	contributiondomain "github.com/smallbiznis/pensio/internal/contribution/domain"
	memberdomain "github.com/smallbiznis/pensio/internal/member/domain"
	statementdomain "github.com/smallbiznis/pensio/internal/statement/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memberSvcStub struct {
	member memberdomain.Member
	err    error
}

func (s *memberSvcStub) Create(ctx context.Context, req memberdomain.CreateMemberRequest) (memberdomain.Member, error) {
	return s.member, s.err
}

func (s *memberSvcStub) Update(ctx context.Context, req memberdomain.UpdateMemberRequest) (memberdomain.Member, error) {
	return s.member, s.err
}

func (s *memberSvcStub) GetByID(ctx context.Context, id string) (memberdomain.Member, error) {
	return s.member, s.err
}

func (s *memberSvcStub) List(ctx context.Context) ([]memberdomain.Member, error) {
	return []memberdomain.Member{s.member}, s.err
}

func (s *memberSvcStub) SoftDelete(ctx context.Context, id string) error {
	return s.err
}

type contributionSvcStub struct {
	contribution contributiondomain.Contribution
	err          error
}

func (s *contributionSvcStub) Submit(ctx context.Context, req contributiondomain.SubmitContributionRequest) (contributiondomain.Contribution, error) {
	return s.contribution, s.err
}

func (s *contributionSvcStub) GetByID(ctx context.Context, id string) (contributiondomain.Contribution, error) {
	return s.contribution, s.err
}

func (s *contributionSvcStub) ListByMember(ctx context.Context, memberID string) ([]contributiondomain.Contribution, error) {
	return []contributiondomain.Contribution{s.contribution}, s.err
}

func (s *contributionSvcStub) UpdateStatus(ctx context.Context, id string, status contributiondomain.ContributionStatus) error {
	return s.err
}

func (s *contributionSvcStub) Delete(ctx context.Context, id string) error {
	return s.err
}

type eligibilitySvcStub struct {
	eligible bool
	err      error
}

func (s *eligibilitySvcStub) IsEligible(ctx context.Context, memberID string) (bool, error) {
	return s.eligible, s.err
}

type statementSvcStub struct {
	total     statementdomain.Total
	statement statementdomain.Statement
	payload   []byte
	err       error
}

func (s *statementSvcStub) Total(ctx context.Context, memberID string) (statementdomain.Total, error) {
	return s.total, s.err
}

func (s *statementSvcStub) Statement(ctx context.Context, memberID string, start, end time.Time) (statementdomain.Statement, error) {
	return s.statement, s.err
}

func (s *statementSvcStub) Render(ctx context.Context, memberID string, start, end time.Time) ([]byte, error) {
	return s.payload, s.err
}

type serverStubs struct {
	member       *memberSvcStub
	contribution *contributionSvcStub
	eligibility  *eligibilitySvcStub
	statement    *statementSvcStub
}

func newTestServer(t *testing.T) (*Server, *serverStubs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stubs := &serverStubs{
		member:       &memberSvcStub{},
		contribution: &contributionSvcStub{},
		eligibility:  &eligibilitySvcStub{},
		statement:    &statementSvcStub{},
	}

	srv := NewServer(ServerParams{
		Gin:             NewEngine(zap.NewNop()),
		Cfg:             config.Config{},
		MemberSvc:       stubs.member,
		ContributionSvc: stubs.contribution,
		EligibilitySvc:  stubs.eligibility,
		StatementSvc:    stubs.statement,
	})
	return srv, stubs
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateMemberInvalidBody(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodPost, "/api/members", "{not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "validation_error", resp.Error.Type)
}

func TestCreateMemberDomainValidationMapsTo400(t *testing.T) {
	srv, stubs := newTestServer(t)
	stubs.member.err = memberdomain.ErrAgeOutOfRange

	rec := doRequest(t, srv, http.MethodPost, "/api/members",
		`{"first_name":"Ana","last_name":"Silva","email":"ana@example.com","date_of_birth":"2015-01-01"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "validation_error", resp.Error.Type)
	require.Len(t, resp.Error.Errors, 1)
	require.Equal(t, "age_out_of_range", resp.Error.Errors[0].Code)
}

func TestGetContributionNotFound(t *testing.T) {
	srv, stubs := newTestServer(t)
	stubs.contribution.err = contributiondomain.ErrNotFound

	rec := doRequest(t, srv, http.MethodGet, "/api/contributions/123", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitContributionDuplicateMonthlyMapsToConflict(t *testing.T) {
	srv, stubs := newTestServer(t)
	stubs.contribution.err = contributiondomain.ErrDuplicateMonthly

	rec := doRequest(t, srv, http.MethodPost, "/api/contributions",
		`{"member_id":"123","amount":100,"type":"monthly"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSubmitContributionPaymentFailureReturnsRecord(t *testing.T) {
	srv, stubs := newTestServer(t)
	stubs.contribution.contribution = contributiondomain.Contribution{
		Amount: 100,
		Type:   contributiondomain.TypeMonthly,
		Status: contributiondomain.StatusFailed,
	}
	stubs.contribution.err = contributiondomain.ErrPaymentFailed

	rec := doRequest(t, srv, http.MethodPost, "/api/contributions",
		`{"member_id":"123","amount":100,"type":"monthly"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Data  contributiondomain.Contribution `json:"data"`
		Error errorPayload                    `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, contributiondomain.StatusFailed, resp.Data.Status)
	require.Equal(t, "payment_failed", resp.Error.Type)
}

func TestStatementRequiresDateRange(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/members/123/statement", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/members/123/statement?start_date=2024-02-01&end_date=2024-01-01", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatementNoContributionsMapsTo404(t *testing.T) {
	srv, stubs := newTestServer(t)
	stubs.statement.err = statementdomain.ErrNoContributions

	rec := doRequest(t, srv, http.MethodGet, "/api/members/123/statement?start_date=2024-01-01&end_date=2024-12-31", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadStatementServesPDF(t *testing.T) {
	srv, stubs := newTestServer(t)
	stubs.statement.payload = []byte("%PDF-1.7")

	rec := doRequest(t, srv, http.MethodGet, "/api/members/123/statement/document?start_date=2024-01-01&end_date=2024-12-31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	require.Equal(t, "%PDF-1.7", rec.Body.String())
}

func TestEligibilityEndpoint(t *testing.T) {
	srv, stubs := newTestServer(t)
	stubs.eligibility.eligible = true

	rec := doRequest(t, srv, http.MethodGet, "/api/members/123/eligibility", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			MemberID string `json:"member_id"`
			Eligible bool   `json:"eligible"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Data.Eligible)
	require.Equal(t, "123", resp.Data.MemberID)
}
