package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kvitto/internal/service"
)

// SettingsHandler handles the admin settings endpoints: audit exports and the
// destructive data reset.
type SettingsHandler struct {
	settingsService service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// ExportAuditCSV handles GET /api/v1/settings/audit-export.csv
func (h *SettingsHandler) ExportAuditCSV(c *gin.Context) {
	file, err := h.settingsService.ExportAuditCSV(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	writeDownload(c, file)
}

// ExportAuditXLSX handles GET /api/v1/settings/audit-export.xlsx
func (h *SettingsHandler) ExportAuditXLSX(c *gin.Context) {
	file, err := h.settingsService.ExportAuditXLSX(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	writeDownload(c, file)
}

// AuditCount handles GET /api/v1/settings/audit-count
func (h *SettingsHandler) AuditCount(c *gin.Context) {
	n, err := h.settingsService.AuditCount(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"count": n})
}

// ResetData handles POST /api/v1/settings/reset. The request body must
// contain {"confirm": "RESET"} to guard against accidental calls.
func (h *SettingsHandler) ResetData(c *gin.Context) {
	var req struct {
		Confirm string `json:"confirm" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Confirm != "RESET" {
		RespondError(c, http.StatusBadRequest, "CONFIRMATION_REQUIRED", `body must be {"confirm": "RESET"}`)
		return
	}

	res, err := h.settingsService.ResetData(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, res)
}

func writeDownload(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
