// internal/api/handlers/upload_handler.go
package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/boltline/purchasing-dash/internal/config"
	"github.com/boltline/purchasing-dash/internal/domain"
	"github.com/boltline/purchasing-dash/internal/ingest"
	"github.com/boltline/purchasing-dash/internal/service"
)

type UploadHandler struct {
	inventory *service.InventoryService
	cfg       config.UploadConfig
}

func NewUploadHandler(inventory *service.InventoryService, cfg config.UploadConfig) *UploadHandler {
	return &UploadHandler{inventory: inventory, cfg: cfg}
}

// Upload ingests one file of an explicitly declared record type. The new
// table replaces any previously uploaded table of the same type.
func (h *UploadHandler) Upload(c *gin.Context) {
	recordType := domain.RecordType(c.Param("type"))
	switch recordType {
	case domain.RecordLot, domain.RecordItems, domain.RecordUsage,
		domain.RecordPO, domain.RecordSales, domain.RecordVendors:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown record type: " + c.Param("type")})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	table, err := h.readTable(fileHeader)
	if err != nil {
		log.Warn().Err(err).Str("filename", fileHeader.Filename).Msg("failed to parse upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.inventory.Ingest(c.Request.Context(), recordType, table)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename": fileHeader.Filename,
		"type":     recordType,
		"rows":     count,
	})
}

// UploadBulk ingests several files at once, letting the classifier decide
// each file's record type from its headers. One unidentified or malformed
// file never aborts the batch; its entry carries the failure and the rest
// proceed.
func (h *UploadHandler) UploadBulk(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}
	if h.cfg.MaxBulkFiles > 0 && len(files) > h.cfg.MaxBulkFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many files in one batch"})
		return
	}

	results := make([]domain.ClassifiedFile, len(files))
	bulk := make([]ingest.BulkFile, 0, len(files))
	indexByName := make(map[string]int, len(files))

	for i, fh := range files {
		results[i] = domain.ClassifiedFile{Filename: fh.Filename}
		table, err := h.readTable(fh)
		if err != nil {
			log.Warn().Err(err).Str("filename", fh.Filename).Msg("skipping unreadable file in bulk upload")
			results[i].Error = err.Error()
			continue
		}
		indexByName[fh.Filename] = i
		bulk = append(bulk, ingest.BulkFile{Name: fh.Filename, Table: table})
	}

	for _, res := range ingest.ClassifyBatch(c.Request.Context(), bulk) {
		i := indexByName[res.Name]
		if res.Unidentified {
			results[i].Error = "unidentified"
			continue
		}

		count, err := h.inventory.Ingest(c.Request.Context(), res.Type, res.Table)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		results[i].Type = res.Type
		results[i].Rows = count
	}

	c.JSON(http.StatusOK, gin.H{"files": results})
}

// Reset clears the session's uploaded tables and snapshot.
func (h *UploadHandler) Reset(c *gin.Context) {
	h.inventory.Reset(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (h *UploadHandler) readTable(fh *multipart.FileHeader) (ingest.Table, error) {
	if h.cfg.MaxFileBytes > 0 && fh.Size > h.cfg.MaxFileBytes {
		return ingest.Table{}, errFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return ingest.Table{}, err
	}
	defer f.Close()
	return ingest.ReadFile(fh.Filename, f)
}

var errFileTooLarge = &uploadError{"file exceeds the configured size limit"}

type uploadError struct{ msg string }

func (e *uploadError) Error() string { return e.msg }
