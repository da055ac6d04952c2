// ABOUTME: CRUD handlers for inventory items
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

// ItemResponse is the JSON form of an item record.
type ItemResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// itemRequest is the JSON body for item create/update.
type itemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func itemResponse(item *store.Item) ItemResponse {
	return ItemResponse{ID: item.ID, Name: item.Name, Price: item.Price}
}

// handleItems routes /items by HTTP method.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListItems(w, r)
	case http.MethodPost:
		s.handleCreateItem(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleItemByID routes /items/{id} by HTTP method.
func (s *Server) handleItemByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/items/")
	if id == "" || strings.Contains(id, "/") {
		s.sendJSONError(w, http.StatusNotFound, "item not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetItem(w, r, id)
	case http.MethodPut:
		s.handleUpdateItem(w, r, id)
	case http.MethodDelete:
		s.handleDeleteItem(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItems(r.Context())
	if err != nil {
		s.logger.Error("failed to list items", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, itemResponse(item))
	}
	s.sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		s.sendJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	now := time.Now().UTC()
	item := &store.Item{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Price:     req.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateItem(r.Context(), item); err != nil {
		s.logger.Error("failed to create item", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.sendJSON(w, http.StatusCreated, itemResponse(item))
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request, id string) {
	item, err := s.store.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "item not found")
			return
		}
		s.logger.Error("failed to get item", "id", id, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, itemResponse(item))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request, id string) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		s.sendJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	item := &store.Item{
		ID:        id,
		Name:      req.Name,
		Price:     req.Price,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.store.UpdateItem(r.Context(), item); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "item not found")
			return
		}
		s.logger.Error("failed to update item", "id", id, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.sendJSON(w, http.StatusOK, itemResponse(item))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.store.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "item not found")
			return
		}
		s.logger.Error("failed to delete item", "id", id, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]string{"message": "item deleted successfully"})
}
