package ui

import (
	"encoding/json"
	"log"
	"net/http"

	"cellscope/adapters/export"
	"cellscope/app"
	"cellscope/internal/errors"
	"cellscope/internal/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Tab values carried in the query string so the active tab survives the
// full-recompute swap.
const (
	tabDGE  = "dge"
	tabGSEA = "gsea"
)

// dashboardData is the template payload for one full recompute pass.
type dashboardData struct {
	View  app.ExploreView
	Query string // encoded normalized state, reused by chart and export URLs
	Tab   string
}

// buildDashboardData runs the recompute pass for the request's query string.
func (a *App) buildDashboardData(r *http.Request) (dashboardData, error) {
	q := r.URL.Query()
	sel := app.SelectionFromQuery(q)
	thresholds := app.ThresholdsFromQuery(q)

	view, err := a.service.Explore(r.Context(), sel, thresholds)
	if err != nil {
		return dashboardData{}, err
	}

	tab := q.Get("tab")
	if tab != tabGSEA {
		tab = tabDGE
	}

	return dashboardData{
		View:  view,
		Query: app.QueryFromState(view.Selection, view.Thresholds).Encode(),
		Tab:   tab,
	}, nil
}

// handleIndex renders the full dashboard page.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := a.buildDashboardData(r)
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.renderTemplate(w, "index.html", data)
}

// handleDashboardFragment renders the dashboard fragment for HTMX swaps.
// Direct navigation falls back to the full page so fragment URLs stay
// shareable.
func (a *App) handleDashboardFragment(w http.ResponseWriter, r *http.Request) {
	if !isHTMX(r) {
		http.Redirect(w, r, "/?"+r.URL.RawQuery, http.StatusSeeOther)
		return
	}

	data, err := a.buildDashboardData(r)
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.renderTemplate(w, "dashboard.html", data)
}

// handleVolcanoChart renders the volcano PNG for the request's state.
func (a *App) handleVolcanoChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	_, sel, err := a.service.Options(r.Context(), app.SelectionFromQuery(q))
	if err != nil {
		a.renderError(w, err)
		return
	}

	view, err := a.service.DGEView(r.Context(), sel, app.ThresholdsFromQuery(q))
	if err != nil {
		a.renderError(w, err)
		return
	}
	if len(view.Volcano.Points) == 0 {
		http.Error(w, "no data for the current selection", http.StatusNotFound)
		return
	}

	png, err := RenderVolcano(view.Volcano)
	if err != nil {
		a.renderError(w, errors.RenderError("volcano chart failed", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handlePathwaysChart renders the pathway enrichment PNG.
func (a *App) handlePathwaysChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	_, sel, err := a.service.Options(r.Context(), app.SelectionFromQuery(q))
	if err != nil {
		a.renderError(w, err)
		return
	}

	view, err := a.service.GSEAView(r.Context(), sel, app.ThresholdsFromQuery(q))
	if err != nil {
		a.renderError(w, err)
		return
	}
	if len(view.Plot.Points) == 0 {
		http.Error(w, "no data for the current selection", http.StatusNotFound)
		return
	}

	png, err := RenderPathways(view.Plot)
	if err != nil {
		a.renderError(w, errors.RenderError("pathway chart failed", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleExportDGE streams the filtered DGE view as an xlsx download.
func (a *App) handleExportDGE(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	_, sel, err := a.service.Options(r.Context(), app.SelectionFromQuery(q))
	if err != nil {
		a.renderError(w, err)
		return
	}

	view, err := a.service.DGEView(r.Context(), sel, app.ThresholdsFromQuery(q))
	if err != nil {
		a.renderError(w, err)
		return
	}

	f, err := export.DGEWorkbook(view.Rows, view.Thresholds)
	if err != nil {
		a.renderError(w, errors.RenderError("DGE export failed", err))
		return
	}
	defer f.Close()

	metrics.ExportsTotal.WithLabelValues("dge").Inc()
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename("dge_results")+`"`)
	if err := f.Write(w); err != nil {
		log.Printf("[UI] Error writing DGE export: %v", err)
	}
}

// handleExportGSEA streams the filtered GSEA view as an xlsx download.
func (a *App) handleExportGSEA(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	_, sel, err := a.service.Options(r.Context(), app.SelectionFromQuery(q))
	if err != nil {
		a.renderError(w, err)
		return
	}

	view, err := a.service.GSEAView(r.Context(), sel, app.ThresholdsFromQuery(q))
	if err != nil {
		a.renderError(w, err)
		return
	}

	f, err := export.GSEAWorkbook(view.Rows)
	if err != nil {
		a.renderError(w, errors.RenderError("GSEA export failed", err))
		return
	}
	defer f.Close()

	metrics.ExportsTotal.WithLabelValues("gsea").Inc()
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename("gsea_results")+`"`)
	if err := f.Write(w); err != nil {
		log.Printf("[UI] Error writing GSEA export: %v", err)
	}
}

// handleReload re-runs the source load and swaps the cached tables.
func (a *App) handleReload(w http.ResponseWriter, r *http.Request) {
	if a.reload == nil {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "reload is only available on the memory backend",
		})
		return
	}

	report, err := a.reload(r.Context())
	if err != nil {
		log.Printf("[UI] Reload failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	metrics.ReloadsTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":      report.RunID.String(),
		"duration_ms": report.Duration.Milliseconds(),
		"dge_rows":    report.TotalDGERows(),
		"gsea_rows":   report.TotalGSEARows(),
		"warnings":    report.Warnings,
	})
}

// handleHealthz reports liveness plus the loaded dataset count.
func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	infos, err := a.service.Datasets(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "datasets": len(infos)})
}

// renderError maps application errors onto HTTP statuses.
func (a *App) renderError(w http.ResponseWriter, err error) {
	log.Printf("[UI] %s: %v", errors.GetCode(err), err)

	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeStoreError:
		status = http.StatusBadGateway
	}
	http.Error(w, http.StatusText(status), status)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[UI] Error writing JSON response: %v", err)
	}
}
