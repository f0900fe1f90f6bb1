package dashboardhandler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"laborcontract/internal/domain/auth"
	"laborcontract/internal/domain/contract"
	"laborcontract/internal/domain/document"
	"laborcontract/internal/platform/metrics"
	"laborcontract/internal/transport/http/api"
	"laborcontract/internal/transport/http/middleware"
	"laborcontract/internal/transport/http/shared"
)

// Handler serves the worker's side: the dashboard, folders and bulk
// operations on completed contracts.
type Handler struct {
	Service     *contract.Service
	Metrics     *metrics.Collector
	Idempotency middleware.IdempotencyBackend
}

func NewHandler(service *contract.Service, collector *metrics.Collector, idem middleware.IdempotencyBackend) *Handler {
	return &Handler{Service: service, Metrics: collector, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleWorker))
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/dashboard/export.xlsx", h.handleExport)
		r.With(middleware.Idempotent(h.Idempotency)).Post("/contracts/bulk-delete", h.handleBulkDelete)
		r.With(middleware.Idempotent(h.Idempotency)).Post("/contracts/bulk-move", h.handleBulkMove)
		r.Get("/folders", h.handleListFolders)
		r.Post("/folders", h.handleCreateFolder)
		r.Put("/folders/{folderID}", h.handleUpdateFolder)
		r.Delete("/folders/{folderID}", h.handleDeleteFolder)
	})
}

func viewFromQuery(r *http.Request, param string) contract.View {
	if folderID := strings.TrimSpace(r.URL.Query().Get(param)); folderID != "" {
		return contract.InFolder(folderID)
	}
	return contract.Unfiled()
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	board, err := h.Service.Dashboard(r.Context(), user.UserID, viewFromQuery(r, "folderId"))
	if err != nil {
		shared.WriteError(w, requestID, err, "dashboard_failed", "failed to load dashboard")
		return
	}
	api.Success(w, board, requestID)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	board, err := h.Service.Dashboard(r.Context(), user.UserID, viewFromQuery(r, "folderId"))
	if err != nil {
		shared.WriteError(w, requestID, err, "dashboard_failed", "failed to load dashboard")
		return
	}
	names := make(map[string]string, len(board.Folders))
	for _, folder := range board.Folders {
		names[folder.ID] = folder.Name
	}
	workbook, err := document.ExportXLSX(board.Contracts(), names)
	if err != nil {
		shared.WriteError(w, requestID, err, "export_failed", "failed to export contracts")
		return
	}
	h.Metrics.RecordDocument()
	api.Binary(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "contracts.xlsx", workbook)
}

type bulkMoveRequest struct {
	IDs      []string `json:"ids"`
	FolderID *string  `json:"folderId"`
}

type bulkDeleteResponse struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

func (h *Handler) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	var payload struct {
		IDs []string `json:"ids"`
	}
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	removed, err := h.Service.BulkDelete(r.Context(), user.UserID, payload.IDs)
	if err != nil {
		shared.WriteError(w, requestID, err, "bulk_delete_failed", "failed to delete contracts")
		return
	}
	api.Success(w, bulkDeleteResponse{Count: removed, Message: deletedMessage(removed)}, requestID)
}

func deletedMessage(count int) string {
	if count == 1 {
		return "Deleted 1 contract"
	}
	return fmt.Sprintf("Deleted %d contracts", count)
}

func (h *Handler) handleBulkMove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	var payload bulkMoveRequest
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	result, err := h.Service.BulkMove(r.Context(), user.UserID, payload.IDs, payload.FolderID)
	if err != nil {
		shared.WriteError(w, requestID, err, "bulk_move_failed", "failed to move contracts")
		return
	}
	api.Success(w, result, requestID)
}

func (h *Handler) handleListFolders(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	folders, err := h.Service.ListFolders(r.Context(), user.UserID)
	if err != nil {
		shared.WriteError(w, requestID, err, "folders_list_failed", "failed to list folders")
		return
	}
	api.Success(w, folders, requestID)
}

func (h *Handler) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	var payload contract.FolderInput
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	folder, err := h.Service.CreateFolder(r.Context(), user.UserID, payload)
	if err != nil {
		shared.WriteError(w, requestID, err, "folder_create_failed", "failed to create folder")
		return
	}
	api.Created(w, folder, requestID)
}

func (h *Handler) handleUpdateFolder(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	var payload contract.FolderInput
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	folder, err := h.Service.UpdateFolder(r.Context(), user.UserID, chi.URLParam(r, "folderID"), payload)
	if err != nil {
		shared.WriteError(w, requestID, err, "folder_update_failed", "failed to update folder")
		return
	}
	api.Success(w, folder, requestID)
}

func (h *Handler) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	result, err := h.Service.DeleteFolder(r.Context(), user.UserID, chi.URLParam(r, "folderID"), viewFromQuery(r, "activeFolderId"))
	if err != nil {
		shared.WriteError(w, requestID, err, "folder_delete_failed", "failed to delete folder")
		return
	}
	api.Success(w, result, requestID)
}
