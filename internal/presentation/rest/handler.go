package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/application/usecase"
	"github.com/bibbank/loanrisk/internal/domain/model"
)

// UseCases bundles the application layer behind the HTTP API.
type UseCases struct {
	RegisterApplicant     *usecase.RegisterApplicantUseCase
	SubmitProfile         *usecase.SubmitProfileUseCase
	ApplyForLoan          *usecase.ApplyForLoanUseCase
	AssessRisk            *usecase.AssessRiskUseCase
	ReviewLoanApplication *usecase.ReviewLoanApplicationUseCase
	SetCreditScore        *usecase.SetCreditScoreUseCase
	SetFraudStatus        *usecase.SetFraudStatusUseCase
	GetLoanDecision       *usecase.GetLoanDecisionUseCase
	GetCreditScore        *usecase.GetCreditScoreUseCase
	GetFraudScore         *usecase.GetFraudScoreUseCase
	ListLoanApplications  *usecase.ListApplicantsUseCase
	ListRiskAssessments   *usecase.ListApplicantsUseCase
	ListActiveLoans       *usecase.ListApplicantsUseCase
}

// Handler adapts HTTP requests to use cases.
type Handler struct {
	uc     UseCases
	logger *slog.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(uc UseCases, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{uc: uc, logger: logger}
}

// ---------------------------------------------------------------------------
// Banking routes
// ---------------------------------------------------------------------------

func (h *Handler) getFraudScore(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.GetFraudScore.Execute(r.Context(), identifier(r))
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) getCreditScore(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.GetCreditScore.Execute(r.Context(), identifier(r))
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) applyForLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyForLoanRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.Identifier = r.PathValue("identifier")

	resp, err := h.uc.ApplyForLoan.Execute(r.Context(), req)
	h.respond(w, r, http.StatusCreated, resp, err)
}

func (h *Handler) submitProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitProfileRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.Identifier = r.PathValue("identifier")

	resp, err := h.uc.SubmitProfile.Execute(r.Context(), req)
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) getLoanDecision(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.GetLoanDecision.Execute(r.Context(), identifier(r))
	h.respond(w, r, http.StatusOK, resp, err)
}

// ---------------------------------------------------------------------------
// Admin routes
// ---------------------------------------------------------------------------

func (h *Handler) registerApplicant(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterApplicantRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.uc.RegisterApplicant.Execute(r.Context(), req)
	h.respond(w, r, http.StatusCreated, resp, err)
}

func (h *Handler) setFraudStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.SetFraudStatusRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.Identifier = r.PathValue("identifier")

	resp, err := h.uc.SetFraudStatus.Execute(r.Context(), req)
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) setCreditScore(w http.ResponseWriter, r *http.Request) {
	var req dto.SetCreditScoreRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.Identifier = r.PathValue("identifier")

	resp, err := h.uc.SetCreditScore.Execute(r.Context(), req)
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) reviewLoanApplication(w http.ResponseWriter, r *http.Request) {
	var req dto.ReviewLoanRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.Identifier = r.PathValue("identifier")

	resp, err := h.uc.ReviewLoanApplication.Execute(r.Context(), req)
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) assessRisk(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.AssessRisk.Execute(r.Context(), identifier(r))
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) listLoanApplications(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.uc.ListLoanApplications)
}

func (h *Handler) listRiskAssessments(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.uc.ListRiskAssessments)
}

func (h *Handler) listActiveLoans(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.uc.ListActiveLoans)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, uc *usecase.ListApplicantsUseCase) {
	req, err := listRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := uc.Execute(r.Context(), req)
	h.respond(w, r, http.StatusOK, resp, err)
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, resp any, err error) {
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, status, resp)
}

func identifier(r *http.Request) dto.IdentifierRequest {
	return dto.IdentifierRequest{Identifier: r.PathValue("identifier")}
}

func listRequest(r *http.Request) (dto.ListRequest, error) {
	q := r.URL.Query()
	req := dto.ListRequest{
		Status: q.Get("status"),
		SortBy: q.Get("sortBy"),
	}
	for name, dst := range map[string]*int{"limit": &req.Limit, "page": &req.Page} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return dto.ListRequest{}, &model.ValidationError{Reason: name + " must be an integer"}
		}
		*dst = n
	}
	return req, nil
}
