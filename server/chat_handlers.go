package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/insightxl/insight"
)

type uploadResponse struct {
	FileID      string            `json:"file_id"`
	Filename    string            `json:"filename"`
	RowCount    int               `json:"row_count"`
	ColumnCount int               `json:"column_count"`
	Columns     []string          `json:"columns"`
	Dtypes      map[string]string `json:"dtypes"`
	SampleData  []map[string]any  `json:"sample_data"`
	Summary     string            `json:"summary"`
	Suggestions []string          `json:"suggestions"`
}

type queryRequest struct {
	Message string `json:"message" binding:"required"`
	FileID  string `json:"file_id" binding:"required"`
	UserID  string `json:"user_id"`
}

type queryResponse struct {
	Response string `json:"response"`
	FileID   string `json:"file_id"`
}

func (s *Server) handleUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing file upload"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to read upload: " + err.Error()})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to read upload: " + err.Error()})
		return
	}

	ds, err := insight.LoadDataset(header.Filename, data)
	if err != nil {
		if errors.Is(err, insight.ErrUnsupportedFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Unsupported file format. Please upload a .csv or .xlsx file."})
			return
		}
		s.log.Warn("upload parse failed", zap.String("filename", header.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to parse file: " + err.Error()})
		return
	}

	id := s.registry.Put(ds)
	suggestions := insight.Suggest(c.Request.Context(), s.gen, ds)
	s.log.Info("dataset uploaded",
		zap.String("file_id", id),
		zap.String("filename", ds.Filename),
		zap.Int("rows", ds.RowCount),
		zap.Int("columns", ds.ColumnCount))

	sample := ds.Sample
	if len(sample) > 3 {
		sample = sample[:3]
	}
	c.JSON(http.StatusOK, uploadResponse{
		FileID:      id,
		Filename:    ds.Filename,
		RowCount:    ds.RowCount,
		ColumnCount: ds.ColumnCount,
		Columns:     ds.Columns,
		Dtypes:      ds.Dtypes,
		SampleData:  sample,
		Summary:     fmt.Sprintf("It contains %d rows and %d columns.", ds.RowCount, ds.ColumnCount),
		Suggestions: suggestions,
	})
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request: " + err.Error()})
		return
	}

	ds, err := s.registry.Get(req.FileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "File not found"})
		return
	}

	answer := insight.Answer(c.Request.Context(), s.gen, ds, req.Message)
	s.log.Info("query answered",
		zap.String("file_id", req.FileID),
		zap.Bool("chart", insight.IsChartRequest(req.Message)))
	c.JSON(http.StatusOK, queryResponse{Response: answer, FileID: req.FileID})
}

func (s *Server) handleChat(c *gin.Context) {
	var req insight.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, insight.RunAgent(c.Request.Context(), s.gen, req))
}

func (s *Server) handleDeleteFile(c *gin.Context) {
	id := c.Param("file_id")
	if err := s.registry.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "File not found"})
		return
	}
	s.log.Info("dataset deleted", zap.String("file_id", id))
	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
