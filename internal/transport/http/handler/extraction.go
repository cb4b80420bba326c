package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appsvc "clauseminer/internal/app"
	"clauseminer/internal/platform/rabbitmq"
	"clauseminer/internal/transport/http/response"
)

// ExtractionHandler handles contract upload, extraction, and retrieval requests.
type ExtractionHandler struct {
	extractions *appsvc.ExtractionService
	exports     *appsvc.ExportService
	publisher   *rabbitmq.JobPublisher
	maxFileSize int64
}

func NewExtractionHandler(
	extractions *appsvc.ExtractionService,
	exports *appsvc.ExportService,
	publisher *rabbitmq.JobPublisher,
	maxFileSize int64,
) *ExtractionHandler {
	return &ExtractionHandler{
		extractions: extractions,
		exports:     exports,
		publisher:   publisher,
		maxFileSize: maxFileSize,
	}
}

// Extract accepts a multipart form with "file" (PDF or DOCX), runs the full
// pipeline synchronously, and returns the extracted clauses.
func (h *ExtractionHandler) Extract(c *gin.Context) {
	file, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	doc, err := h.extractions.CreateDocument(file.Filename, file.Size)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	result, err := h.extractions.ProcessDocument(c.Request.Context(), doc.ID, doc.Filename, data)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// ExtractAsync accepts the same upload but queues it and returns immediately.
func (h *ExtractionHandler) ExtractAsync(c *gin.Context) {
	file, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	doc, err := h.extractions.CreateDocument(file.Filename, file.Size)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	job := rabbitmq.ExtractionJob{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		FileData:   data,
	}
	if err := h.publisher.Publish(c.Request.Context(), job); err != nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeInternalServer, "queue extraction job failed: "+err.Error())
		return
	}

	response.Accepted(c, gin.H{
		"document_id": doc.ID,
		"status":      doc.Status,
	})
}

// Get returns a document with its clauses.
func (h *ExtractionHandler) Get(c *gin.Context) {
	doc, clauses, err := h.extractions.GetExtraction(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.OK(c, gin.H{
		"document":      doc,
		"clauses":       clauses,
		"total_clauses": len(clauses),
	})
}

// List returns one page of documents with clause counts.
func (h *ExtractionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	result, err := h.extractions.ListExtractions(page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Export streams the document's clauses as an XLSX workbook.
func (h *ExtractionHandler) Export(c *gin.Context) {
	payload, filename, err := h.exports.ExportClausesXLSX(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}

func (h *ExtractionHandler) readUpload(c *gin.Context) (*multipart.FileHeader, []byte, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing document file (form field 'file')")
		return nil, nil, false
	}

	if file.Filename == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "uploaded file has no filename")
		return nil, nil, false
	}
	if file.Size > h.maxFileSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
			fmt.Sprintf("file too large (max %d MB)", h.maxFileSize>>20))
		return nil, nil, false
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to open uploaded file")
		return nil, nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to read uploaded file")
		return nil, nil, false
	}
	return file, data, true
}

func (h *ExtractionHandler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, appsvc.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, appsvc.ErrDocumentUnprocessable):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, appsvc.ErrDocumentNotFound):
		response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
	}
}
