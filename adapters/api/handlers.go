package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cellscope/app"
	"cellscope/domain/analysis"
)

// handleHealth reports liveness plus the loaded dataset count.
func (s *Server) handleHealth(c *gin.Context) {
	infos, err := s.service.Datasets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "datasets": len(infos)})
}

// handleDatasets lists the loaded datasets with their row counts.
func (s *Server) handleDatasets(c *gin.Context) {
	infos, err := s.service.Datasets(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasets": infos})
}

// handleOptions normalizes the submitted selection and returns the valid
// option sets alongside it.
func (s *Server) handleOptions(c *gin.Context) {
	opts, sel, err := s.service.Options(c.Request.Context(), selectionFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": opts, "selection": sel})
}

// handleDGE returns the filtered DGE rows, volcano view and summary for the
// normalized selection.
func (s *Server) handleDGE(c *gin.Context) {
	sel, err := s.normalize(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	view, err := s.service.DGEView(c.Request.Context(), sel, thresholdsFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": sel, "dge": view})
}

// handleGSEA returns the filtered GSEA rows and pathway plot view.
func (s *Server) handleGSEA(c *gin.Context) {
	sel, err := s.normalize(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	view, err := s.service.GSEAView(c.Request.Context(), sel, thresholdsFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": sel, "gsea": view})
}

// handleVolcano returns just the plot-ready volcano points and guides.
func (s *Server) handleVolcano(c *gin.Context) {
	sel, err := s.normalize(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	view, err := s.service.DGEView(c.Request.Context(), sel, thresholdsFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": sel, "volcano": view.Volcano})
}

// handlePathways returns just the plot-ready pathway bars.
func (s *Server) handlePathways(c *gin.Context) {
	sel, err := s.normalize(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	view, err := s.service.GSEAView(c.Request.Context(), sel, thresholdsFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": sel, "pathways": view.Plot})
}

// handleSummary returns just the per-selection summary statistics.
func (s *Server) handleSummary(c *gin.Context) {
	sel, err := s.normalize(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	view, err := s.service.DGEView(c.Request.Context(), sel, thresholdsFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"selection":  sel,
		"thresholds": view.Thresholds,
		"summary":    view.Summary,
	})
}

// handleExplore runs one full recompute pass and returns everything the
// dashboard would render.
func (s *Server) handleExplore(c *gin.Context) {
	view, err := s.service.Explore(c.Request.Context(), selectionFrom(c), thresholdsFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// normalize resolves the raw query selection against the store's tables.
func (s *Server) normalize(c *gin.Context) (analysis.Selection, error) {
	_, sel, err := s.service.Options(c.Request.Context(), selectionFrom(c))
	return sel, err
}

func selectionFrom(c *gin.Context) analysis.Selection {
	return app.SelectionFromQuery(c.Request.URL.Query())
}

func thresholdsFrom(c *gin.Context) analysis.Thresholds {
	return app.ThresholdsFromQuery(c.Request.URL.Query())
}
