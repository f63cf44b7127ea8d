package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kvitto/internal/domain"
	"kvitto/internal/service"
)

// ReceiptHandler handles receipt upload and lifecycle endpoints.
type ReceiptHandler struct {
	receiptService service.ReceiptService
	auditService   service.AuditService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService service.ReceiptService, auditService service.AuditService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		auditService:   auditService,
	}
}

// Upload handles POST /api/v1/receipts
func (h *ReceiptHandler) Upload(c *gin.Context) {
	userID, _, ok := authedUser(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PRICE", "price field is required and must be a number")
		return
	}

	receiptDate := time.Now().UTC()
	if v := c.PostForm("receipt_date"); v != "" {
		receiptDate, err = time.Parse("2006-01-02", v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_DATE", "receipt_date must be YYYY-MM-DD")
			return
		}
	}

	rec, err := h.receiptService.Create(c.Request.Context(), service.CreateReceiptInput{
		OwnerID:       userID,
		FileBytes:     fileBytes,
		FileName:      header.Filename,
		ReceiptDate:   receiptDate,
		DeclaredPrice: price,
		Meta:          requestMeta(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, rec)
}

// List handles GET /api/v1/receipts. Members see their own receipts, admins
// see everything.
func (h *ReceiptHandler) List(c *gin.Context) {
	userID, role, ok := authedUser(c)
	if !ok {
		return
	}

	var (
		receipts []domain.Receipt
		err      error
	)
	if role == domain.RoleAdmin {
		receipts, err = h.receiptService.ListAll(c.Request.Context())
	} else {
		receipts, err = h.receiptService.ListByOwner(c.Request.Context(), userID)
	}
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, receipts)
}

// GetByID handles GET /api/v1/receipts/:id
func (h *ReceiptHandler) GetByID(c *gin.Context) {
	userID, role, ok := authedUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.receiptService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if role != domain.RoleAdmin && rec.OwnerID != userID {
		RespondError(c, http.StatusForbidden, "FORBIDDEN", "not your receipt")
		return
	}

	RespondOK(c, rec)
}

// Download handles GET /api/v1/receipts/:id/download
func (h *ReceiptHandler) Download(c *gin.Context) {
	userID, role, ok := authedUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.receiptService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if role != domain.RoleAdmin && rec.OwnerID != userID {
		RespondError(c, http.StatusForbidden, "FORBIDDEN", "not your receipt")
		return
	}

	url, err := h.receiptService.DownloadURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}

// UpdateStatus handles PUT /api/v1/receipts/:id/status (admin only).
func (h *ReceiptHandler) UpdateStatus(c *gin.Context) {
	adminID, _, ok := authedUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "status field is required")
		return
	}

	err := h.receiptService.UpdateStatus(c.Request.Context(), id, domain.ReceiptStatus(req.Status), adminID, requestMeta(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"id": id, "status": req.Status})
}

// Delete handles DELETE /api/v1/receipts/:id (admin only).
func (h *ReceiptHandler) Delete(c *gin.Context) {
	adminID, _, ok := authedUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), id, adminID, requestMeta(c)); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": true})
}

// History handles GET /api/v1/receipts/:id/history
func (h *ReceiptHandler) History(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.auditService.ListForReceipt(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, entries)
}
