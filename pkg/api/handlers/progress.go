package handlers

import (
	"net/http"

	"github.com/marmos91/helocheck/pkg/scan"
)

// ProgressSource reports the progress of a scan. scan.Runner implements it.
type ProgressSource interface {
	Progress() (scan.Progress, bool)
}

// ProgressHandler serves scan progress.
type ProgressHandler struct {
	source ProgressSource
}

// NewProgressHandler creates a progress handler. source may be nil.
func NewProgressHandler(source ProgressSource) *ProgressHandler {
	return &ProgressHandler{source: source}
}

// Progress handles GET /progress.
//
// Returns 404 Not Found until a scan has started.
func (h *ProgressHandler) Progress(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		writeJSON(w, http.StatusNotFound, errorResponse("no scan started"))
		return
	}

	p, ok := h.source.Progress()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse("no scan started"))
		return
	}
	writeJSON(w, http.StatusOK, okResponse(p))
}
