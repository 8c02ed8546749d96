package transport

import "net/http"

// EmployeeStats handler
// @Summary Per-employee statistics
// @Description Admin only. One row per employee ordered by id; called counts contacts marked called today.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.EmployeeStats
// @Failure 403 {object} transport.ErrorResponse
// @Router /api/users/employees/stats [get]
func (s *RestHandler) EmployeeStats(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.StatsApp.ComputeStats(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}
