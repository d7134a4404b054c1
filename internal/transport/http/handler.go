package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/errs"
	"github.com/cwrk-planet/creator-hub/internal/service"
	httpmw "github.com/cwrk-planet/creator-hub/internal/transport/http/middleware"
	"github.com/cwrk-planet/creator-hub/pkg/httputil"
	"github.com/cwrk-planet/creator-hub/pkg/logger"

	"github.com/google/uuid"
)

const maxJSONBody = 1 << 20

type Handler struct {
	authSvc    *service.AuthService
	profileSvc *service.ProfileService
	creatorSvc *service.CreatorService
	messageSvc *service.MessageService

	maxUploadBytes int64
}

func NewHandler(
	auth *service.AuthService,
	profile *service.ProfileService,
	creator *service.CreatorService,
	message *service.MessageService,
	maxUploadBytes int64,
) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}

	return &Handler{
		authSvc:        auth,
		profileSvc:     profile,
		creatorSvc:     creator,
		messageSvc:     message,
		maxUploadBytes: maxUploadBytes,
	}
}

// decodeJSON reads a single JSON object of at most limit bytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return errs.Validation("request body too large")
		case errors.Is(err, io.EOF):
			return errs.Validation("request body is empty")
		default:
			return errs.Validation("invalid json")
		}
	}

	return nil
}

// writeError maps err to a status and a public message. 5xx details stay in the log.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := errs.ToHTTP(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error(op+" failed", slog.Any("err", err))
		httputil.Error(w, status, "internal server error", nil)
		return
	}

	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		if len(ve.Fields) == 0 {
			httputil.Error(w, status, ve.Msg, nil)
			return
		}
		httputil.Error(w, status, ve.Msg, ve.Fields)
		return
	}

	httputil.Error(w, status, publicMessage(err), nil)
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, errs.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, errs.ErrNotFound):
		return "not found"
	case errors.Is(err, errs.ErrUpstream):
		return "upstream service failed"
	}

	for _, sentinel := range []error{errs.ErrConflict, errs.ErrInvalidReference} {
		if !errors.Is(err, sentinel) {
			continue
		}
		head, ok := strings.CutSuffix(err.Error(), ": "+sentinel.Error())
		if ok && !strings.HasPrefix(head, "repository") {
			return head
		}
		return sentinel.Error()
	}

	return err.Error()
}

// callerID returns the authenticated user id set by the auth middleware.
func callerID(r *http.Request) (domain.UserID, bool) {
	id, ok := httpmw.IdentityFromCtx(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	uid, err := uuid.Parse(id.ID)
	if err != nil {
		return uuid.Nil, false
	}

	return uid, true
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}

	return n
}
