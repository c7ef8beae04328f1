package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	importerdomain "github.com/labsupply/smartpricing/internal/importer/domain"
)

func (s *Server) UploadTrainingData(c *gin.Context) {
	var req importerdomain.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.importerSvc.Upload(c.Request.Context(), req)
	if err != nil {
		var mhErr *importerdomain.MissingHeadersError
		if errors.As(err, &mhErr) {
			s.metrics.RecordImportBatch("rejected", 0)
		}
		AbortWithError(c, err)
		return
	}

	s.metrics.RecordImportBatch("accepted", result.NumRows)
	c.JSON(http.StatusOK, result)
}

func (s *Server) StartRetrain(c *gin.Context) {
	var req importerdomain.RetrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.importerSvc.Retrain(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.RecordRetrainJob("queued")
	c.JSON(http.StatusOK, result)
}

func (s *Server) DownloadTemplate(c *gin.Context) {
	template := s.importerSvc.Template() + "\n"

	c.Header("Content-Disposition", `attachment; filename="pricing_template.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(template))
}
