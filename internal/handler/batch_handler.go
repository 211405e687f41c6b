package handler

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"batchlens/internal/domain"
	"batchlens/internal/service"
)

// BatchHandler handles batch analysis endpoints.
type BatchHandler struct {
	batchService service.BatchService
	maxFileSize  int64
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchService service.BatchService, maxFileSize int64) *BatchHandler {
	return &BatchHandler{batchService: batchService, maxFileSize: maxFileSize}
}

// Analyze handles POST /api/v1/batches/analyze.
//
// Accepts a multipart form with one or more "files" parts, classifies
// each file against the known models, and returns the batch report with
// a dependency-safe processing order. Classification problems appear as
// warnings/errors inside the report, not as HTTP failures.
func (h *BatchHandler) Analyze(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "expected multipart form data")
		return
	}

	parts := form.File["files"]
	if len(parts) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILES", "at least one 'files' part is required")
		return
	}

	inputs := make([]service.FileInput, 0, len(parts))
	for _, part := range parts {
		if h.maxFileSize > 0 && part.Size > h.maxFileSize {
			HandleError(c, fmt.Errorf("%w: %s", domain.ErrFileTooLarge, part.Filename))
			return
		}
		content, err := readPart(part)
		if err != nil {
			log.Printf("batchHandler.Analyze: reading %s: %v", part.Filename, err)
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE",
				fmt.Sprintf("could not read uploaded file %s", part.Filename))
			return
		}
		inputs = append(inputs, service.FileInput{Filename: part.Filename, Content: content})
	}

	ba, err := h.batchService.AnalyzeFiles(c.Request.Context(), inputs)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, domain.BatchReport{
		BatchID:       uuid.New(),
		AnalyzedAt:    time.Now().UTC(),
		BatchAnalysis: *ba,
	})
}

func readPart(part *multipart.FileHeader) ([]byte, error) {
	f, err := part.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}
