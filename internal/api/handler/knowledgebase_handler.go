package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// KnowledgebaseHandler manages uploaded reference documents. Embedding and
// retrieval happen in an external service; this surface only stores files
// alongside the source tables and answers the management stubs.
type KnowledgebaseHandler struct {
	dataDir string
	log     zerolog.Logger
}

func NewKnowledgebaseHandler(dataDir string, log zerolog.Logger) *KnowledgebaseHandler {
	return &KnowledgebaseHandler{dataDir: dataDir, log: log}
}

func (h *KnowledgebaseHandler) Create(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Knowledgebase created"})
}

func (h *KnowledgebaseHandler) Rename(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Knowledgebase renamed"})
}

func (h *KnowledgebaseHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"knowledgebases": {"kb1", "kb2"}})
}

func (h *KnowledgebaseHandler) Delete(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Knowledgebase deleted"})
}

// AddFiles handles POST /kb/add-files (multipart form upload).
func (h *KnowledgebaseHandler) AddFiles(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no files provided"})
	}

	if err := os.MkdirAll(h.dataDir, 0o755); err != nil {
		return err
	}

	saved := make([]string, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return err
		}

		// filepath.Base strips any client-supplied directory components.
		name := filepath.Base(fh.Filename)
		dst, err := os.Create(filepath.Join(h.dataDir, name))
		if err != nil {
			src.Close()
			return err
		}
		if _, err := io.Copy(dst, src); err != nil {
			src.Close()
			dst.Close()
			return err
		}
		src.Close()
		dst.Close()

		saved = append(saved, name)
		h.log.Info().Str("file", name).Msg("knowledgebase file stored")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Files uploaded successfully",
		"files":   saved,
	})
}

// ListFiles handles GET /kb/list-files.
func (h *KnowledgebaseHandler) ListFiles(c echo.Context) error {
	entries, err := os.ReadDir(h.dataDir)
	if err != nil {
		return err
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	return c.JSON(http.StatusOK, map[string][]string{"files": files})
}

func (h *KnowledgebaseHandler) DeleteFiles(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Files deleted"})
}
