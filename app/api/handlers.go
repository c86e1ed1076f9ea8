package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hanulkim/blog-discovery/app/content"
	"github.com/hanulkim/blog-discovery/app/database"
	"github.com/hanulkim/blog-discovery/app/discovery"
	"github.com/hanulkim/blog-discovery/app/docs"
	"github.com/hanulkim/blog-discovery/app/tasks"
)

const (
	defaultRelatedLimit  = 5
	defaultTrendingLimit = 10
	defaultWindowDays    = 7
	maxLimit             = 50
	maxWindowDays        = 365
)

func NewHandler(engine *discovery.Service, regenerator RegeneratorInterface,
	contents database.ContentStore, documents database.DocumentStore,
	configCache *docs.ConfigCache, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		engine:      engine,
		regenerator: regenerator,
		contents:    contents,
		documents:   documents,
		configCache: configCache,
		scheduler:   scheduler,
	}
}

// GetRelated serves the "related content" panel: items of the requested
// target type sharing tags with the source item, excluding the source
// itself. Zero matches is an empty list, not an error.
func (h *Handler) GetRelated(c *gin.Context) {
	sourceType, err := content.ParseType(c.Query("source_type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source_type parameter"})
		return
	}

	sourceID := c.Query("source_id")
	if sourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source_id parameter"})
		return
	}

	targetType, err := content.ParseType(c.Query("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type parameter"})
		return
	}

	limit := queryInt(c, "limit", defaultRelatedLimit, maxLimit)

	items, err := h.engine.GetRelatedTo(content.Identity{Type: sourceType, ID: sourceID}, targetType, limit)
	if err != nil {
		slog.Error("Related lookup failed", "source_type", sourceType, "source_id", sourceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, itemListResponse(items))
}

// GetTrending serves the mixed trending list across all content types.
func (h *Handler) GetTrending(c *gin.Context) {
	windowDays := queryInt(c, "window", defaultWindowDays, maxWindowDays)
	limit := queryInt(c, "limit", defaultTrendingLimit, maxLimit)

	items, err := h.engine.GetTrendingMixed(windowDays, limit)
	if err != nil {
		slog.Error("Trending lookup failed", "window_days", windowDays, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, itemListResponse(items))
}

// GetPopularByType serves the single-type popularity ranking.
func (h *Handler) GetPopularByType(c *gin.Context) {
	t, err := content.ParseType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content type"})
		return
	}

	windowDays := queryInt(c, "window", defaultWindowDays, maxWindowDays)
	limit := queryInt(c, "limit", defaultTrendingLimit, maxLimit)

	items, err := h.engine.GetPopularOfType(t, windowDays, limit)
	if err != nil {
		slog.Error("Popular lookup failed", "type", t, "window_days", windowDays, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, itemListResponse(items))
}

// GetDocumentByKind serves the stored discoverability document text.
func (h *Handler) GetDocumentByKind(c *gin.Context) {
	kind := c.Param("kind")

	if _, err := h.configCache.GetConfig(kind); err != nil {
		slog.Error("Document configuration not found", "kind", kind, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	doc, err := h.documents.GetDocument(kind)
	if err != nil {
		slog.Error("Database error", "operation", "get_document", "kind", kind, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if doc == nil {
		slog.Error("Document not generated yet", "kind", kind)
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Content-Type", "text/markdown; charset=utf-8")
	c.Header("X-Document-Version", doc.Version)
	c.Header("X-Last-Updated", doc.UpdatedAt.Format(time.RFC3339))

	c.String(http.StatusOK, doc.Content)
}

// APIRegenerateDocument regenerates a document synchronously and returns the
// new text with the structural diff against the previous version.
func (h *Handler) APIRegenerateDocument(c *gin.Context) {
	kind := c.Param("kind")

	if _, err := h.configCache.GetConfig(kind); err != nil {
		slog.Error("Document configuration not found", "kind", kind, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Document configuration not found"})
		return
	}

	result, err := h.regenerator.Run(kind)
	if err != nil {
		if errors.Is(err, database.ErrVersionConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Document was regenerated concurrently, retry"})
			return
		}
		slog.Error("Document regeneration failed", "kind", kind, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate document"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":    kind,
		"version": result.Version,
		"text":    result.Text,
		"diff": gin.H{
			"added":   entryListResponse(result.Diff.Added),
			"removed": entryListResponse(result.Diff.Removed),
		},
	})
}

// APIReloadDocument reloads a document configuration from disk and enqueues
// a background regeneration with the fresh settings.
func (h *Handler) APIReloadDocument(c *gin.Context) {
	kind := c.Param("kind")

	if _, err := h.configCache.GetConfig(kind); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document configuration not found"})
		return
	}

	docConfig, err := h.configCache.LoadConfig(kind)
	if err != nil {
		slog.Error("Error reloading configuration", "kind", kind, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload configuration",
			"details": err.Error(),
		})
		return
	}

	task := tasks.NewRegenerateDocumentTask(kind, docConfig, h.regenerator)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing regeneration task", "kind", kind, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue regeneration task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Configuration reloaded, regeneration enqueued",
		"kind":    kind,
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.contents.GetPublishedCount(); err == nil {
		health["published_contents"] = count
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	documents := make([]map[string]interface{}, 0, h.configCache.GetConfigCount())

	for kind, docConfig := range h.configCache.GetConfigs() {
		info := map[string]interface{}{
			"kind":             kind,
			"enabled":          docConfig.Settings.Enabled,
			"sections":         len(docConfig.Sections),
			"refresh_interval": (time.Duration(docConfig.Settings.RefreshInterval) * time.Second).String(),
		}

		if doc, err := h.documents.GetDocument(kind); err == nil && doc != nil {
			info["version"] = doc.Version
			info["updated_at"] = doc.UpdatedAt
		}

		documents = append(documents, info)
	}

	stats := map[string]interface{}{
		"documents": documents,
	}

	if count, err := h.contents.GetPublishedCount(); err == nil {
		stats["published_contents"] = count
	}

	c.JSON(http.StatusOK, stats)
}

func queryInt(c *gin.Context, name string, defaultValue, maxValue int) int {
	value, err := strconv.Atoi(c.DefaultQuery(name, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}

func itemListResponse(items []content.Item) gin.H {
	list := make([]gin.H, 0, len(items))
	for _, item := range items {
		list = append(list, gin.H{
			"id":         item.ID,
			"type":       item.Type,
			"title":      item.Title,
			"summary":    item.Summary,
			"created_at": item.CreatedAt,
		})
	}
	return gin.H{"items": list, "total": len(list)}
}

func entryListResponse(entries []docs.Entry) []gin.H {
	list := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		list = append(list, gin.H{
			"title": entry.Title,
			"url":   entry.URL,
		})
	}
	return list
}
