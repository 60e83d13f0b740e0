package handlers

import (
	"errors"
	"net/http"

	"ezproduct/internal/api/middleware"
	"ezproduct/internal/batch"
	"ezproduct/internal/i18n"
	"ezproduct/internal/logger"
	"ezproduct/internal/services/generation"
	"ezproduct/internal/services/shopify"

	"github.com/gin-gonic/gin"
)

// MaxUploadBytes caps a batch upload request, enforced by
// middleware.BodyLimit on the route.
const MaxUploadBytes = 1 << 20

type BatchHandler struct {
	runner  *batch.Runner
	clients ClientFactory
	logger  *logger.Logger
}

func NewBatchHandler(runner *batch.Runner, clients ClientFactory, logger *logger.Logger) *BatchHandler {
	return &BatchHandler{
		runner:  runner,
		clients: clients,
		logger:  logger.Component("batch"),
	}
}

// Template downloads the example CSV for ?lang=.
func (h *BatchHandler) Template(c *gin.Context) {
	lang := middleware.Lang(c)
	c.Header("Content-Disposition", `attachment; filename="`+batch.TemplateFilename(lang)+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte("\ufeff"+batch.Template(lang)))
}

// Upload parses the multipart "file" field and generates every valid row in
// order, answering with a JSON summary.
func (h *BatchHandler) Upload(c *gin.Context) {
	session := middleware.Session(c)
	lang := middleware.Lang(c)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, "batchNoFile")})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	rows, problems, err := batch.Parse(file)
	if err != nil {
		if !errors.Is(err, batch.ErrNoRows) && !errors.Is(err, batch.ErrNoKeywordsCol) && !errors.Is(err, batch.ErrTooManyRows) {
			h.logger.Warn().Err(err).Str("shop", session.Shop).Msg("failed to read upload")
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := h.clients(session)
	summary, err := h.runner.Run(c.Request.Context(), rows, problems, func(batch.Row) generation.Input {
		return generation.Input{Session: session, Client: client, DebugID: NewDebugID()}
	})
	if err != nil {
		if redirect, ok := shopify.AsReauth(err); ok {
			c.JSON(http.StatusUnauthorized, gin.H{"reauthorize": redirect.Location, "summary": summary})
			return
		}
		h.logger.Warn().Err(err).Str("shop", session.Shop).Msg("batch interrupted")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "summary": summary})
		return
	}
	c.JSON(http.StatusOK, summary)
}
