package http

import (
	"net/http"

	"github.com/cwrk-planet/creator-hub/internal/service"
	"github.com/cwrk-planet/creator-hub/pkg/httputil"

	"github.com/go-chi/chi/v5"
)

// GET /messages?room=&limit=
func (h *Handler) RoomHistory(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.messageSvc.RecentRoomMessages(r.Context(), r.URL.Query().Get("room"), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, "handler.RoomHistory", err)
		return
	}

	resp := make([]RoomMessageResponse, 0, len(msgs))
	for i := range msgs {
		resp = append(resp, toRoomMessageResponse(&msgs[i]))
	}

	httputil.JSON(w, http.StatusOK, resp)
}

// POST /messages/dm
// Отправитель берётся только из токена, поля тела его не переопределяют.
func (h *Handler) SendDirectMessage(w http.ResponseWriter, r *http.Request) {
	sender, ok := callerID(r)
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req DirectMessageRequest
	if err := decodeJSON(w, r, &req, maxJSONBody); err != nil {
		writeError(w, r, "handler.SendDirectMessage.decode", err)
		return
	}
	if err := validateStruct(&req); err != nil {
		writeError(w, r, "handler.SendDirectMessage.validate", err)
		return
	}

	m, err := h.messageSvc.AppendDirectMessage(r.Context(), sender, service.DirectMessageInput{
		ReceiverID:      req.ReceiverID,
		Text:            req.Text,
		Type:            req.Type,
		ClientMessageID: req.ClientMessageID,
	})
	if err != nil {
		writeError(w, r, "handler.SendDirectMessage", err)
		return
	}

	httputil.JSON(w, http.StatusCreated, toDirectMessageResponse(m))
}

// GET /messages/dm/{userId}?limit=
func (h *Handler) DirectThread(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	msgs, err := h.messageSvc.DirectThread(r.Context(), uid, chi.URLParam(r, "userId"), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, "handler.DirectThread", err)
		return
	}

	resp := make([]DirectMessageResponse, 0, len(msgs))
	for i := range msgs {
		resp = append(resp, toDirectMessageResponse(&msgs[i]))
	}

	httputil.JSON(w, http.StatusOK, resp)
}
