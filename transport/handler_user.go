package transport

import (
	stderrors "errors"
	"net/http"

	"github.com/muhammadheryan/crm/constant"
	"github.com/muhammadheryan/crm/model"
	utilsContext "github.com/muhammadheryan/crm/utils/context"
	"github.com/muhammadheryan/crm/utils/errors"
)

const profilePictureField = "profilePicture"

// multipart framing on top of the file itself
const multipartOverhead = 1 << 20

func identityFrom(r *http.Request) (model.Identity, error) {
	identity, ok := utilsContext.GetIdentity(r.Context())
	if !ok {
		return model.Identity{}, errors.SetCustomError(constant.ErrUnauthorize)
	}
	return identity, nil
}

// GetProfile handler
// @Summary Current user profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserResponse
// @Failure 401 {object} transport.ErrorResponse
// @Router /api/users/me [get]
func (s *RestHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.UserApp.GetProfile(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// UpdateProfile handler
// @Summary Update profile
// @Description Partial update of name, phone, location and memberSince. Email and role cannot change.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.UserResponse
// @Failure 400 {object} transport.ErrorResponse
// @Router /api/users/me [patch]
func (s *RestHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate(&req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.UserApp.UpdateProfile(r.Context(), identity, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// UploadProfilePicture handler
// @Summary Upload profile picture
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param profilePicture formData file true "Image file (jpeg, png, gif, webp)"
// @Success 200 {object} model.ProfilePictureResponse
// @Failure 400 {object} transport.ErrorResponse
// @Failure 503 {object} transport.ErrorResponse
// @Router /api/users/me/profile-picture [post]
func (s *RestHandler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if s.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes+multipartOverhead)
	}
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, errors.SetValidationError(map[string]string{profilePictureField: "file is too large"}))
			return
		}
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(profilePictureField)
	if err != nil {
		writeError(w, errors.SetValidationError(map[string]string{profilePictureField: "is required"}))
		return
	}
	defer file.Close()

	res, err := s.UserApp.UploadProfilePicture(r.Context(), identity, file, header.Size)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// GetProfilePicture handler
// @Summary Profile picture
// @Description Redirects to a short-lived presigned download URL
// @Tags Users
// @Security BearerAuth
// @Success 302
// @Failure 404 {object} transport.ErrorResponse
// @Router /api/users/me/profile-picture [get]
func (s *RestHandler) GetProfilePicture(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	url, err := s.UserApp.ProfilePictureURL(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}
