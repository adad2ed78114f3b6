package handler

import (
	_ "embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed dashboard.html
var dashboardHTML string

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

// Dashboard serves the main page at GET /.
func (h *APIHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Version string }{Version: serviceVersion}
	if err := dashboardTmpl.Execute(w, data); err != nil {
		h.logger.Error("failed to render dashboard", zap.Error(err))
	}
}
