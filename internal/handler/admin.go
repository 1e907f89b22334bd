package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avdeevsm/mayorista-system/internal/middleware"
	"github.com/avdeevsm/mayorista-system/internal/model"
	"github.com/avdeevsm/mayorista-system/internal/repository"
)

type generoRequest struct {
	Nombre string `json:"nombre"`
}

type grupoRequest struct {
	Nombre string `json:"nombre"`
	Rango  string `json:"rango"`
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// GetGeneros возвращает таксономию «пол/аудитория».
func (h *Handler) GetGeneros(w http.ResponseWriter, r *http.Request) {
	generos, err := h.service.ListGeneros(r.Context())
	if err != nil {
		h.logger.Error("list generos error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if generos == nil {
		generos = make([]model.Genero, 0)
	}
	h.writeJSON(w, http.StatusOK, generos)
}

// CreateGenero создаёт элемент таксономии.
func (h *Handler) CreateGenero(w http.ResponseWriter, r *http.Request) {
	var req generoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nombre == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	id, err := h.service.CreateGenero(r.Context(), req.Nombre)
	if err != nil {
		if errors.Is(err, repository.ErrGeneroExists) {
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
			return
		}
		h.logger.Error("create genero error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, model.Genero{ID: id, Nombre: req.Nombre})
}

// UpdateGenero переименовывает элемент таксономии.
func (h *Handler) UpdateGenero(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req generoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nombre == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateGenero(r.Context(), id, req.Nombre); err != nil {
		h.mapTaxonomyError(w, err, repository.ErrGeneroExists)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteGenero удаляет элемент таксономии.
func (h *Handler) DeleteGenero(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteGenero(r.Context(), id); err != nil {
		h.mapTaxonomyError(w, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetGrupos возвращает размерные группы.
func (h *Handler) GetGrupos(w http.ResponseWriter, r *http.Request) {
	grupos, err := h.service.ListGruposTalle(r.Context())
	if err != nil {
		h.logger.Error("list grupos error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if grupos == nil {
		grupos = make([]model.GrupoTalle, 0)
	}
	h.writeJSON(w, http.StatusOK, grupos)
}

// CreateGrupo создаёт размерную группу.
func (h *Handler) CreateGrupo(w http.ResponseWriter, r *http.Request) {
	var req grupoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nombre == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	id, err := h.service.CreateGrupoTalle(r.Context(), req.Nombre, req.Rango)
	if err != nil {
		if errors.Is(err, repository.ErrGrupoExists) {
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
			return
		}
		h.logger.Error("create grupo error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, model.GrupoTalle{ID: id, Nombre: req.Nombre, Rango: req.Rango})
}

// UpdateGrupo обновляет размерную группу.
func (h *Handler) UpdateGrupo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req grupoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nombre == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateGrupoTalle(r.Context(), id, req.Nombre, req.Rango); err != nil {
		h.mapTaxonomyError(w, err, repository.ErrGrupoExists)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteGrupo удаляет размерную группу.
func (h *Handler) DeleteGrupo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteGrupoTalle(r.Context(), id); err != nil {
		h.mapTaxonomyError(w, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateProducto создаёт товар каталога.
func (h *Handler) CreateProducto(w http.ResponseWriter, r *http.Request) {
	var p model.Producto
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Nombre == "" || p.Precio.IsNegative() {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	id, err := h.service.CreateProducto(r.Context(), p)
	if err != nil {
		h.logger.Error("create producto error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	admin, _ := middleware.GetAdminFromContext(r.Context())
	h.logger.Info("producto creado", zap.String("admin", admin), zap.String("id", id.String()))

	p.ID = id
	h.writeJSON(w, http.StatusCreated, p)
}

// UpdateProducto обновляет товар каталога.
func (h *Handler) UpdateProducto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var p model.Producto
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Nombre == "" || p.Precio.IsNegative() {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	p.ID = id

	if err := h.service.UpdateProducto(r.Context(), p); err != nil {
		h.mapTaxonomyError(w, err, nil)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteProducto удаляет товар каталога.
func (h *Handler) DeleteProducto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteProducto(r.Context(), id); err != nil {
		h.mapTaxonomyError(w, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// mapTaxonomyError переводит ошибки репозитория в HTTP-статусы админ-CRUD.
func (h *Handler) mapTaxonomyError(w http.ResponseWriter, err error, conflict error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case conflict != nil && errors.Is(err, conflict):
		http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
	default:
		h.logger.Error("admin crud error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
