package transport

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/muhammadheryan/crm/constant"
	"github.com/muhammadheryan/crm/model"
	"github.com/muhammadheryan/crm/utils/errors"
)

func contactID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		return 0, errors.SetCustomError(constant.ErrNotFound)
	}
	return id, nil
}

// ListContacts handler
// @Summary List my contacts
// @Description Only contacts owned by the caller, newest first
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ContactEntity
// @Failure 401 {object} transport.ErrorResponse
// @Router /api/contacts [get]
func (s *RestHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.ContactApp.ListContacts(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// CreateContact handler
// @Summary Create contact
// @Description The caller becomes the owner; status defaults to future
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ContactRequest true "Contact"
// @Success 201 {object} model.ContactEntity
// @Failure 400 {object} transport.ErrorResponse
// @Router /api/contacts [post]
func (s *RestHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate(&req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.ContactApp.CreateContact(r.Context(), identity, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeCreated(w, res)
}

// GetContact handler
// @Summary Get contact
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 200 {object} model.ContactEntity
// @Failure 403 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /api/contacts/{id} [get]
func (s *RestHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := contactID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.ContactApp.GetContact(r.Context(), identity, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// ReplaceContact handler
// @Summary Replace contact
// @Description Full update; absent optional fields are reset
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Param request body model.ContactRequest true "Contact"
// @Success 200 {object} model.ContactEntity
// @Failure 400 {object} transport.ErrorResponse
// @Failure 403 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /api/contacts/{id} [put]
func (s *RestHandler) ReplaceContact(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := contactID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// validated by the app, after the ownership check
	res, err := s.ContactApp.ReplaceContact(r.Context(), identity, id, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// UpdateContact handler
// @Summary Patch contact
// @Description Partial update of remark, status, followUpDate (null clears) and called
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Param request body model.ContactPatch true "Fields to change"
// @Success 200 {object} model.ContactEntity
// @Failure 400 {object} transport.ErrorResponse
// @Failure 403 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /api/contacts/{id} [patch]
func (s *RestHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := contactID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var patch model.ContactPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.ContactApp.UpdateContact(r.Context(), identity, id, &patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// DeleteContact handler
// @Summary Delete contact
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 200 {object} model.DeleteContactResponse
// @Failure 403 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /api/contacts/{id} [delete]
func (s *RestHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := contactID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.ContactApp.DeleteContact(r.Context(), identity, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, model.DeleteContactResponse{
		Message: "Contact deleted successfully",
		Contact: res,
	})
}
