package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"babinium/internal/csvexport"
	"babinium/internal/domain"
	"babinium/internal/xlsxexport"
)

// ExportHandler turns extracted rows into downloadable files.
type ExportHandler struct{}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

type exportRequest struct {
	Rows domain.TableData `json:"rows"`
}

// ExportCSV handles POST /api/v1/exports/csv
// @Summary Export rows as CSV
// @Tags exports
// @Accept json
// @Produce text/csv
// @Param name query string false "Base file name" default(table-data)
// @Param bom query bool false "Prepend a UTF-8 BOM for Excel"
// @Success 200 {file} file
// @Failure 400 {object} APIResponse "Empty or malformed rows"
// @Router /exports/csv [post]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	rows, ok := bindRows(c)
	if !ok {
		return
	}
	withBOM, _ := strconv.ParseBool(c.Query("bom"))

	var buf bytes.Buffer
	if err := csvexport.Export(&buf, rows, withBOM); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(c.DefaultQuery("name", csvexport.DefaultBaseName), "csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX handles POST /api/v1/exports/xlsx
// @Summary Export rows as an Excel workbook
// @Tags exports
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param name query string false "Base file name" default(table-data)
// @Success 200 {file} file
// @Failure 400 {object} APIResponse "Empty or malformed rows"
// @Router /exports/xlsx [post]
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	rows, ok := bindRows(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := xlsxexport.Export(&buf, rows); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(c.DefaultQuery("name", csvexport.DefaultBaseName), "xlsx")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxexport.ContentType, buf.Bytes())
}

// bindRows reads the request rows. Returns false if an error response was written.
func bindRows(c *gin.Context) (domain.TableData, bool) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "body must be {\"rows\": [ {...}, ... ]}")
		return nil, false
	}
	if len(req.Rows) == 0 {
		HandleError(c, domain.ErrEmptyTable)
		return nil, false
	}
	return req.Rows, true
}
