// pkg/server/handlers.go
package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bomdash/bom-ingress/pkg/etl"
	"github.com/bomdash/bom-ingress/pkg/excel"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleUpload accepts a multipart workbook upload and returns its handle
// plus the sheet list.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open upload"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}

	handle, err := s.store.Save(data, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wb, err := s.store.Open(handle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sheets := wb.SheetNames()
	_ = wb.Close()

	c.JSON(http.StatusOK, gin.H{
		"file_id":    handle,
		"filename":   fileHeader.Filename,
		"size_bytes": len(data),
		"sheets":     sheets,
	})
}

// handlePreview returns a head/tail sample of one sheet.
func (s *Server) handlePreview(c *gin.Context) {
	handle := c.Query("file_id")
	if handle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id is required"})
		return
	}

	n := s.cfg.MaxPreviewRows
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
			return
		}
		if parsed < n {
			n = parsed
		}
	}

	wb, err := s.store.Open(handle)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, excel.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	defer wb.Close()

	sheet := c.Query("sheet")
	if sheet == "" {
		sheet = wb.SheetNames()[0]
	}
	if !wb.HasSheet(sheet) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sheet not found: " + sheet})
		return
	}

	preview, err := wb.PreviewSheet(sheet, n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, preview)
}

// handleProfile returns per-column quality statistics for one sheet: null
// counts, unique counts, sample values, inferred type and duplicate rows.
func (s *Server) handleProfile(c *gin.Context) {
	handle := c.Query("file_id")
	if handle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id is required"})
		return
	}
	sheet := c.Query("sheet")
	if sheet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sheet is required"})
		return
	}

	wb, err := s.store.Open(handle)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, excel.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	defer wb.Close()

	if !wb.HasSheet(sheet) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sheet not found: " + sheet})
		return
	}

	profile, err := wb.ProfileSheet(sheet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// handleTransform runs the full ETL pipeline for an uploaded workbook.
// Processing failures come back as 200 with success=false and the messages
// collected so far; input errors map to 4xx.
func (s *Server) handleTransform(c *gin.Context) {
	var req etl.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Handle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id is required"})
		return
	}

	resp, err := s.svc.Transform(c.Request.Context(), req)
	if err != nil {
		s.logger.Error("Transform request rejected",
			zap.String("file_id", req.Handle),
			zap.Error(err))

		status := http.StatusBadRequest
		if errors.Is(err, excel.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
