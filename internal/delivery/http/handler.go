package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ecosnap/backend/internal/domain"
)

const (
	// UserIDHeader carries the caller's identity; authentication happens upstream
	UserIDHeader = "X-User-ID"

	maxImageBytes  = 10 << 20
	maxUploadBytes = maxImageBytes + 1<<20 // room for multipart framing
	imageField     = "image"
)

// ScanService is the use case surface the HTTP layer depends on
type ScanService interface {
	ScoreProduct(ctx context.Context, userID string, attrs *domain.ProductAttributes) (*domain.ScanResult, error)
	ScanBarcode(ctx context.Context, userID, barcode string) (*domain.ScanResult, error)
	ScanImage(ctx context.Context, userID string, image []byte, mimeType string) (*domain.ScanResult, error)
	Find(ctx context.Context, id uuid.UUID) (*domain.Scan, error)
	History(ctx context.Context, userID string, limit int) ([]domain.Scan, error)
	Stats(ctx context.Context, userID string) (*domain.UserStats, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scans  ScanService
	logger *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(scans ScanService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		scans:  scans,
		logger: logger.With("component", "http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ecosnap-backend",
		"version": "1.0.0",
	})
}

// ScoreProduct scores the product attributes in the request body
func (h *Handler) ScoreProduct(c *gin.Context) {
	var attrs domain.ProductAttributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.scans.ScoreProduct(c.Request.Context(), userID(c), &attrs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ScoreBarcode looks up a product by barcode and scores it
func (h *Handler) ScoreBarcode(c *gin.Context) {
	result, err := h.scans.ScanBarcode(c.Request.Context(), userID(c), c.Param("barcode"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ScanImage identifies the product in an uploaded photo and scores it
func (h *Handler) ScanImage(c *gin.Context) {
	if c.Request.ContentLength > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10MB"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	file, header, err := c.Request.FormFile(imageField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10MB"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("multipart field %q is required", imageField)})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	if len(image) > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10MB"})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(image)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported content type: " + mimeType})
		return
	}

	result, err := h.scans.ScanImage(c.Request.Context(), userID(c), image, mimeType)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetScan returns a single recorded scan
func (h *Handler) GetScan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scan id"})
		return
	}

	scan, err := h.scans.Find(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scan)
}

// ListUserScans returns a user's recent scans, newest first
func (h *Handler) ListUserScans(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	scans, err := h.scans.History(c.Request.Context(), c.Param("userID"), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scans": scans,
		"count": len(scans),
	})
}

// UserStats summarizes a user's scan history
func (h *Handler) UserStats(c *gin.Context) {
	stats, err := h.scans.Stats(c.Request.Context(), c.Param("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := MapHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"error", err,
		)
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

// MapHTTPStatus maps domain errors to HTTP status codes
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrScanNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateScan):
		return http.StatusConflict
	case errors.Is(err, domain.ErrImageUnrecognized):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrProductLookupFailure):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrAIUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func userID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(UserIDHeader)); id != "" {
		return id
	}
	return domain.AnonymousUser
}
