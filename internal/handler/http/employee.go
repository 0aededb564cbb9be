package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	AssignLocation(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService user.EmployeeService
}

func NewEmployeeHandler(employeeService user.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	req := user.ListEmployeesRequest{Status: r.URL.Query().Get("status")}

	employees, err := h.employeeService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, employees)
}

// Approve implements EmployeeHandler.
func (h *employeeHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	var req user.ApproveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Approve decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	employee, err := h.employeeService.Approve(r.Context(), uid, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee approved", employee)
}

// AssignLocation implements EmployeeHandler.
func (h *employeeHandlerImpl) AssignLocation(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	var req user.AssignLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AssignLocation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	employee, err := h.employeeService.AssignLocation(r.Context(), uid, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Location assigned", employee)
}

// Delete implements EmployeeHandler.
func (h *employeeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	if err := h.employeeService.Delete(r.Context(), uid); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee deleted", nil)
}
