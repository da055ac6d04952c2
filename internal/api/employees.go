// ABOUTME: CRUD handlers for the employee directory
// ABOUTME: All routes sit behind the bearer-token middleware

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389/opsdesk/internal/store"
)

// EmployeeResponse is the JSON form of an employee record.
type EmployeeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// employeeRequest is the JSON body for employee create/update.
type employeeRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

func employeeResponse(emp *store.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         emp.ID,
		Name:       emp.Name,
		Department: emp.Department,
		Position:   emp.Position,
	}
}

// handleEmployees routes /employees by HTTP method.
func (s *Server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListEmployees(w, r)
	case http.MethodPost:
		s.handleCreateEmployee(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleEmployeeByID routes /employees/{id} by HTTP method.
func (s *Server) handleEmployeeByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/employees/")
	if id == "" || strings.Contains(id, "/") {
		s.sendJSONError(w, http.StatusNotFound, "employee not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetEmployee(w, r, id)
	case http.MethodPut:
		s.handleUpdateEmployee(w, r, id)
	case http.MethodDelete:
		s.handleDeleteEmployee(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.store.ListEmployees(r.Context())
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		response = append(response, employeeResponse(emp))
	}
	s.sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		s.sendJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	now := time.Now().UTC()
	emp := &store.Employee{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Department: req.Department,
		Position:   req.Position,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateEmployee(r.Context(), emp); err != nil {
		s.logger.Error("failed to create employee", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.sendJSON(w, http.StatusCreated, employeeResponse(emp))
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request, id string) {
	emp, err := s.store.GetEmployee(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "employee not found")
			return
		}
		s.logger.Error("failed to get employee", "id", id, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, employeeResponse(emp))
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request, id string) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		s.sendJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	emp := &store.Employee{
		ID:         id,
		Name:       req.Name,
		Department: req.Department,
		Position:   req.Position,
		UpdatedAt:  time.Now().UTC(),
	}

	if err := s.store.UpdateEmployee(r.Context(), emp); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "employee not found")
			return
		}
		s.logger.Error("failed to update employee", "id", id, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]string{"message": "employee updated successfully"})
}

func (s *Server) handleDeleteEmployee(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.store.DeleteEmployee(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "employee not found")
			return
		}
		s.logger.Error("failed to delete employee", "id", id, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]string{"message": "employee deleted successfully"})
}
