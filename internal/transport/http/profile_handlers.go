package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/errs"
	"github.com/cwrk-planet/creator-hub/internal/service"
	"github.com/cwrk-planet/creator-hub/pkg/httputil"
)

const pictureField = "profilePicture"

// GET /profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	p, err := h.profileSvc.GetProfile(r.Context(), uid)
	if err != nil {
		writeError(w, r, "handler.GetProfile", err)
		return
	}

	httputil.JSON(w, http.StatusOK, toProfileResponse(p))
}

// POST /profile accepts JSON or multipart/form-data with an optional
// "profilePicture" file part.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var (
		req  ProfileRequest
		file []byte
		err  error
	)
	if isMultipart(r) {
		req, file, err = h.readMultipartProfile(w, r)
	} else {
		err = decodeJSON(w, r, &req, maxJSONBody+h.maxUploadBytes*2)
	}
	if err != nil {
		writeError(w, r, "handler.UpdateProfile.decode", err)
		return
	}
	if err := validateStruct(&req); err != nil {
		writeError(w, r, "handler.UpdateProfile.validate", err)
		return
	}

	upd, err := toProfileUpdate(req)
	if err != nil {
		writeError(w, r, "handler.UpdateProfile.parse", err)
		return
	}
	upd.PictureFile = file

	p, err := h.profileSvc.UpdateProfile(r.Context(), uid, upd)
	if err != nil {
		writeError(w, r, "handler.UpdateProfile", err)
		return
	}

	httputil.JSON(w, http.StatusOK, ProfileUpdatedResponse{
		Message:     "Profile updated successfully",
		UserProfile: toProfileResponse(p),
	})
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

func (h *Handler) readMultipartProfile(w http.ResponseWriter, r *http.Request) (ProfileRequest, []byte, error) {
	var req ProfileRequest

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+maxJSONBody)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return req, nil, errs.Invalid(pictureField, "file is too large")
		}
		return req, nil, errs.Validation("invalid multipart form")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := func(key string) *string {
		v := strings.TrimSpace(r.FormValue(key))
		if v == "" {
			return nil
		}
		return &v
	}
	req.FirstName = form("firstName")
	req.LastName = form("lastName")
	req.DateOfBirth = form("dateOfBirth")
	req.Description = form("description")
	req.PrimarySkill = form("primarySkill")
	req.ProfilePicture = form(pictureField)

	if v := form("experience"); v != nil {
		n, err := strconv.Atoi(*v)
		if err != nil {
			return req, nil, errs.Invalid("experience", "must be a number")
		}
		req.Experience = &n
	}

	f, _, err := r.FormFile(pictureField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return req, nil, nil
	case err != nil:
		return req, nil, errs.Invalid(pictureField, "cannot read file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		return req, nil, errs.Invalid(pictureField, "cannot read file")
	}

	return req, data, nil
}

func toProfileUpdate(req ProfileRequest) (service.ProfileUpdate, error) {
	var (
		upd    service.ProfileUpdate
		fields []errs.FieldError
	)

	upd.Patch.FirstName = req.FirstName
	upd.Patch.LastName = req.LastName
	upd.Patch.Description = req.Description
	upd.Patch.Experience = req.Experience
	upd.Picture = req.ProfilePicture

	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			fields = append(fields, errs.FieldError{Field: "dateOfBirth", Message: "must be YYYY-MM-DD or RFC3339"})
		} else {
			upd.Patch.DateOfBirth = &dob
		}
	}
	if req.PrimarySkill != nil {
		skill, err := domain.ParseSkill(*req.PrimarySkill)
		if err != nil {
			fields = append(fields, errs.FieldError{Field: "primarySkill", Message: "must be one of Video creation, Photo Creation"})
		} else {
			upd.Patch.PrimarySkill = &skill
		}
	}
	if len(fields) > 0 {
		return upd, errs.Validation("validation failed", fields...)
	}

	return upd, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, s)
}
