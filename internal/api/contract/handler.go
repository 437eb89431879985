package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/entity"
	"github.com/lexyai/drafter/internal/pkg/formatter"
	"github.com/lexyai/drafter/internal/pkg/logger"
	"github.com/lexyai/drafter/internal/pkg/outline"
	"github.com/lexyai/drafter/internal/pkg/response"
	"github.com/lexyai/drafter/internal/pkg/validator"
	"go.uber.org/zap"
)

const (
	defaultExportFormat   = entity.FormatText
	defaultStreamInterval = 500 * time.Millisecond
)

type Handler struct {
	usecase        ContractUsecase
	validator      *validator.Validator
	formatters     *formatter.Factory
	maxSections    int
	streamInterval time.Duration
}

func NewHandler(
	usecase ContractUsecase,
	validator *validator.Validator,
	maxSections int,
	streamInterval time.Duration,
) *Handler {
	if streamInterval <= 0 {
		streamInterval = defaultStreamInterval
	}
	return &Handler{
		usecase:        usecase,
		validator:      validator,
		formatters:     formatter.NewFactory(),
		maxSections:    maxSections,
		streamInterval: streamInterval,
	}
}

// Chat handles POST /api/contract/chat - one advisor turn
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ContractChat")

	var req entity.ContractChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateChat(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	ctx = logger.AddFields(ctx,
		zap.String("draft_id", req.DraftID),
		zap.String("contract_type", req.Context.ContractTypeName),
	)
	ctxzap.Debug(ctx, "answering contract chat", zap.Int("messages", len(req.Messages)))

	resp, err := h.usecase.AnswerChat(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "contract chat answered")
	response.Success(w, resp)
}

// Generate handles POST /api/contract/generate - draft the full contract.
// With a callback_url the draft runs in the background and the request is accepted.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GenerateContract")

	var req entity.GenerateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateGenerate(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	ctx = logger.AddFields(ctx,
		zap.String("draft_id", req.DraftID),
		zap.String("contract_type", req.Context.ContractTypeName),
	)

	if req.CallbackURL != "" {
		ctxzap.Info(ctx, "accepting contract generation", zap.String("callback_url", req.CallbackURL))
		h.usecase.GenerateAsync(ctx, &req)
		response.Accepted(w, req.DraftID, "contract generation is being processed")
		return
	}

	ctxzap.Info(ctx, "generating contract")

	resp, err := h.usecase.Generate(ctx, &req)
	if err != nil {
		if ctx.Err() != nil {
			// Drafting goes on; the result is still visible through progress.
			ctxzap.Info(ctx, "request ended before the contract was ready", zap.Error(ctx.Err()))
			return
		}
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "contract generated", zap.Int("length", len(resp.ContractText)))
	response.Success(w, resp)
}

// GetProgress handles GET /api/contract/progress/{draft_id}
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draft_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("draft_id", draftID),
		zap.String("action", "GetProgress"),
	)

	ctxzap.Debug(ctx, "fetching progress")
	response.Success(w, h.usecase.GetProgress(ctx, draftID))
}

// Export handles POST /api/contract/export?format=txt|markdown|html|docx|pdf
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportContract")

	format := defaultExportFormat
	if param := r.URL.Query().Get("format"); param != "" {
		format = entity.ResultFormat(param)
	}
	if !format.IsValid() {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid format parameter",
			fmt.Errorf("%w: format must be one of: txt, markdown, html, docx, pdf", entity.ErrInvalidFormat))
		return
	}

	var req entity.ExportContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateExport(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	ctx = logger.AddFields(ctx,
		zap.String("draft_id", req.DraftID),
		zap.String("format", string(format)),
	)

	fmtr, err := h.formatters.Create(format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	data, err := fmtr.Format(req.ContractText)
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to format contract", err)
		return
	}

	ctxzap.Info(ctx, "contract exported", zap.Int("bytes", len(data)))
	filename := validator.SanitizeFilename(exportFilename(req.DraftID, fmtr.FileExtension()))
	response.Attachment(w, fmtr.ContentType(), filename, data)
}

// UploadOutline handles POST /api/precedent/outline - extract the outline of a .docx precedent
func (h *Handler) UploadOutline(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadOutline")

	maxUpload := h.validator.MaxUploadSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "failed to parse form", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "file is required",
			fmt.Errorf("%w: file: %w", entity.ErrMissingField, err))
		return
	}
	defer file.Close()

	if err := h.validator.ValidatePrecedentUpload(header); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid file", err)
		return
	}

	ctx = logger.AddFields(ctx,
		zap.String("filename", header.Filename),
		zap.Int64("size_bytes", header.Size),
	)

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "failed to read file", err)
		return
	}

	paragraphs, err := outline.ParagraphsFromBytes(data)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	parsed := outline.Build(paragraphs)
	ctxzap.Info(ctx, "precedent outline extracted",
		zap.Int("paragraphs", len(paragraphs)),
		zap.Int("sections", len(parsed.Sections)),
	)

	response.Success(w, toOutlineUploadResponse(header.Filename, parsed, h.maxSections))
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}

	detail := message
	if err != nil && status < http.StatusInternalServerError {
		detail = fmt.Sprintf("%s: %v", message, err)
	}
	response.Error(w, status, detail)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrPrecedentNotFound) || errors.Is(err, entity.ErrNoPrecedentSections):
		h.respondError(ctx, w, http.StatusNotFound, "no precedent available", err)
	case errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter) ||
		errors.Is(err, entity.ErrInvalidFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrMalformedDocument) || errors.Is(err, entity.ErrInvalidFile) ||
		errors.Is(err, entity.ErrInvalidExtension) || errors.Is(err, entity.ErrFileTooLarge):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid file", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
