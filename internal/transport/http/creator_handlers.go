package http

import (
	"net/http"

	"github.com/cwrk-planet/creator-hub/pkg/httputil"
)

// GET /creators?page=&limit=
func (h *Handler) ListCreators(w http.ResponseWriter, r *http.Request) {
	page, err := h.creatorSvc.ListCreators(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, "handler.ListCreators", err)
		return
	}

	httputil.JSON(w, http.StatusOK, toCreatorsResponse(page))
}
