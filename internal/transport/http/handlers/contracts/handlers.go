package contracthandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"laborcontract/internal/domain/advice"
	"laborcontract/internal/domain/auth"
	"laborcontract/internal/domain/contract"
	"laborcontract/internal/domain/document"
	"laborcontract/internal/domain/validation"
	"laborcontract/internal/domain/wage"
	"laborcontract/internal/platform/metrics"
	"laborcontract/internal/transport/http/api"
	"laborcontract/internal/transport/http/middleware"
	"laborcontract/internal/transport/http/shared"
)

type Handler struct {
	Service       *contract.Service
	Advice        *advice.Service
	Metrics       *metrics.Collector
	PublicBaseURL string
	FontPath      string
}

func NewHandler(service *contract.Service, adviceSvc *advice.Service, collector *metrics.Collector, publicBaseURL, fontPath string) *Handler {
	return &Handler{
		Service:       service,
		Advice:        adviceSvc,
		Metrics:       collector,
		PublicBaseURL: publicBaseURL,
		FontPath:      fontPath,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	employer := middleware.RequireRole(auth.RoleEmployer)
	anyone := middleware.RequireRole()

	r.With(employer).Get("/contracts", h.handleList)
	r.With(employer).Post("/contracts", h.handleCreate)
	r.With(anyone).Get("/contracts/{contractID}", h.handleGet)
	r.With(employer).Put("/contracts/{contractID}", h.handleUpdate)
	r.With(employer).Post("/contracts/{contractID}/share", h.handleShare)
	r.With(employer).Get("/contracts/{contractID}/share-qr.png", h.handleShareQR)
	r.With(anyone).Post("/contracts/{contractID}/signatures", h.handleSign)
	r.With(employer).Post("/contracts/{contractID}/status", h.handleStatus)
	r.With(employer).Post("/contracts/{contractID}/advice", h.handleAdvice)
	r.With(anyone).Post("/contracts/{contractID}/allowances", h.handleAllowance)
	r.With(anyone).Get("/contracts/{contractID}/document", h.handleDocumentText)
	r.With(anyone).Get("/contracts/{contractID}/document.pdf", h.handleDocumentPDF)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, shared.DefaultPageLimit, shared.MaxPageLimit)
	result, err := h.Service.ListIssued(r.Context(), user.UserID, r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, requestID, err, "contracts_list_failed", "failed to list contracts")
		return
	}
	api.Success(w, result, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	var draft contract.Draft
	if !shared.DecodeJSON(w, r, requestID, &draft) {
		return
	}
	created, err := h.Service.Create(r.Context(), user.UserID, draft)
	if err != nil {
		shared.WriteError(w, requestID, err, "contract_create_failed", "failed to create contract")
		return
	}
	api.Created(w, created.ToRecord(), requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	c, err := h.Service.Get(r.Context(), user.UserID, chi.URLParam(r, "contractID"))
	if err != nil {
		shared.WriteError(w, requestID, err, "contract_get_failed", "failed to load contract")
		return
	}
	api.Success(w, c.ToRecord(), requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	var draft contract.Draft
	if !shared.DecodeJSON(w, r, requestID, &draft) {
		return
	}
	updated, err := h.Service.Update(r.Context(), user.UserID, chi.URLParam(r, "contractID"), draft)
	if err != nil {
		shared.WriteError(w, requestID, err, "contract_update_failed", "failed to update contract")
		return
	}
	api.Success(w, updated.ToRecord(), requestID)
}

type shareResponse struct {
	contract.Record
	SigningURL string `json:"signingUrl"`
}

func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	sent, err := h.Service.Share(r.Context(), user.UserID, chi.URLParam(r, "contractID"))
	if err != nil {
		shared.WriteError(w, requestID, err, "contract_share_failed", "failed to share contract")
		return
	}
	api.Success(w, shareResponse{
		Record:     sent.ToRecord(),
		SigningURL: document.SigningURL(h.PublicBaseURL, sent.ID),
	}, requestID)
}

func (h *Handler) handleShareQR(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	c, err := h.Service.Owned(r.Context(), user.UserID, chi.URLParam(r, "contractID"))
	if err != nil {
		shared.WriteError(w, requestID, err, "share_qr_failed", "failed to build share code")
		return
	}
	png, err := document.ShareQR(document.SigningURL(h.PublicBaseURL, c.ID))
	if err != nil {
		shared.WriteError(w, requestID, err, "share_qr_failed", "failed to build share code")
		return
	}
	api.Binary(w, "image/png", "", png)
}

type signRequest struct {
	Signature string `json:"signature"`
}

func (h *Handler) handleSign(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	var payload signRequest
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	party := contract.PartyWorker
	if user.Role == auth.RoleEmployer {
		party = contract.PartyEmployer
	}
	signed, err := h.Service.RecordSignature(r.Context(), user.UserID, party, chi.URLParam(r, "contractID"), payload.Signature)
	if err != nil {
		shared.WriteError(w, requestID, err, "contract_sign_failed", "failed to record signature")
		return
	}
	api.Success(w, signed.ToRecord(), requestID)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	var payload statusRequest
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	next, ok := contract.ParseStatus(payload.Status)
	if !ok {
		shared.FailValidation(w, requestID, []validation.Issue{{Field: "status", Reason: "must be one of draft, pending, signed, completed"}})
		return
	}
	updated, err := h.Service.Transition(r.Context(), user.UserID, chi.URLParam(r, "contractID"), next)
	if err != nil {
		shared.WriteError(w, requestID, err, "contract_status_failed", "failed to change contract status")
		return
	}
	api.Success(w, updated.ToRecord(), requestID)
}

func (h *Handler) handleAdvice(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	c, err := h.Service.Owned(r.Context(), user.UserID, chi.URLParam(r, "contractID"))
	if err != nil {
		shared.WriteError(w, requestID, err, "contract_get_failed", "failed to load contract")
		return
	}
	result, err := h.Advice.Advise(r.Context(), c)
	h.Metrics.RecordAdvice(err)
	if err != nil {
		shared.WriteError(w, requestID, err, "advice_failed", "failed to generate advice")
		return
	}
	api.Success(w, result, requestID)
}

type allowanceRequest struct {
	Type           string          `json:"type"`
	Hours          decimal.Decimal `json:"hours"`
	Days           decimal.Decimal `json:"days"`
	DailyWorkHours decimal.Decimal `json:"dailyWorkHours"`
}

type allowanceResponse struct {
	wage.Result
	ContractID string `json:"contractId"`
	// Bundled is true when the contract's comprehensive wage already pays
	// this allowance; the amount is informational only.
	Bundled bool `json:"bundled"`
}

// handleAllowance prices an allowance at the contract's hourly wage. A
// contract at an under-5 workplace pays no overtime or holiday premium.
func (h *Handler) handleAllowance(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	var payload allowanceRequest
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	c, err := h.Service.Get(r.Context(), user.UserID, chi.URLParam(r, "contractID"))
	if err != nil {
		shared.WriteError(w, requestID, err, "contract_get_failed", "failed to load contract")
		return
	}
	req, err := wage.NewRequest(strings.TrimSpace(payload.Type), payload.Hours, payload.Days)
	if err != nil {
		shared.WriteError(w, requestID, err, "allowance_failed", "failed to calculate allowance")
		return
	}
	params := wage.Params{
		HourlyWage:     decimal.NewFromInt(c.Wage.HourlyWage),
		DailyWorkHours: payload.DailyWorkHours,
	}
	bundled := false
	if terms := c.Wage.Comprehensive; terms != nil {
		params.SmallWorkplace = terms.BusinessSize == contract.BusinessUnder5
		bundled = terms.Details.Covers(req.Kind())
	}
	result, err := wage.Compute(params, req)
	if err != nil {
		shared.WriteError(w, requestID, err, "allowance_failed", "failed to calculate allowance")
		return
	}
	api.Success(w, allowanceResponse{Result: result, ContractID: c.ID, Bundled: bundled}, requestID)
}

func (h *Handler) handleDocumentText(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	c, err := h.Service.Get(r.Context(), user.UserID, chi.URLParam(r, "contractID"))
	if err != nil {
		shared.WriteError(w, requestID, err, "contract_get_failed", "failed to load contract")
		return
	}
	text, err := document.RenderText(c)
	if err != nil {
		shared.WriteError(w, requestID, err, "document_failed", "failed to render contract document")
		return
	}
	h.Metrics.RecordDocument()
	api.Binary(w, "text/plain; charset=utf-8", "", []byte(text))
}

func (h *Handler) handleDocumentPDF(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	c, err := h.Service.Get(r.Context(), user.UserID, chi.URLParam(r, "contractID"))
	if err != nil {
		shared.WriteError(w, requestID, err, "contract_get_failed", "failed to load contract")
		return
	}
	pdf, err := document.RenderPDF(c, document.PDFOptions{FontPath: h.FontPath})
	if err != nil {
		shared.WriteError(w, requestID, err, "document_failed", "failed to render contract document")
		return
	}
	h.Metrics.RecordDocument()
	api.Binary(w, "application/pdf", "contract-"+c.ID+".pdf", pdf)
}
