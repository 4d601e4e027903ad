package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/hongminglow/parts-inventory/internal/http/respond"
	"github.com/hongminglow/parts-inventory/internal/models"
	"github.com/hongminglow/parts-inventory/internal/models/dto"
	"github.com/hongminglow/parts-inventory/internal/storage"
)

const (
	msgPartAdded    = "Part added successfully"
	msgPartUpdated  = "Part updated successfully"
	msgPartDeleted  = "Part deleted successfully"
	msgPartNotFound = "Part not found"
	msgInvalidJSON  = "invalid JSON payload"
	msgTooLarge     = "request body too large"
	msgInternal     = "Internal server error"
)

// maxBodyBytes caps part request bodies.
const maxBodyBytes = 64 << 10

var errTrailingData = errors.New("unexpected data after JSON body")

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// PartHandler serves CRUD over parts. It assumes the caller identity is
// already verified and, for mutating routes, already checked for admin.
type PartHandler struct {
	store storage.PartStore
	log   *zap.Logger
}

// NewPartHandler constructs the handler.
func NewPartHandler(store storage.PartStore, log *zap.Logger) *PartHandler {
	return &PartHandler{store: store, log: log}
}

// Register attaches part routes. authenticated guards every route; admin is
// layered inside it on create, update and delete.
func (h *PartHandler) Register(mux *http.ServeMux, authenticated, admin Middleware) {
	read := func(fn http.HandlerFunc) http.Handler { return authenticated(fn) }
	write := func(fn http.HandlerFunc) http.Handler { return authenticated(admin(fn)) }

	mux.Handle("POST /part", write(h.handleCreate))
	mux.Handle("GET /parts", read(h.handleList))
	mux.Handle("GET /parts/{id}", read(h.handleGet))
	mux.Handle("PUT /parts/{id}", write(h.handleUpdate))
	mux.Handle("DELETE /parts/{id}", write(h.handleDelete))
}

func (h *PartHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePartRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respond.Msg(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.store.CreatePart(r.Context(), req.Part())
	if err != nil {
		h.log.Error("create part", zap.Error(err))
		respond.Msg(w, http.StatusInternalServerError, msgInternal)
		return
	}
	respond.Created(w, msgPartAdded, created.ID)
}

func (h *PartHandler) handleList(w http.ResponseWriter, r *http.Request) {
	parts, err := h.store.ListParts(r.Context())
	if err != nil {
		h.log.Error("list parts", zap.Error(err))
		respond.Msg(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if parts == nil {
		parts = []models.Part{}
	}
	respond.JSON(w, http.StatusOK, parts)
}

func (h *PartHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := partID(r)
	if !ok {
		respond.Msg(w, http.StatusNotFound, msgPartNotFound)
		return
	}
	part, err := h.store.GetPart(r.Context(), id)
	if err != nil {
		h.storeError(w, "get part", id, err)
		return
	}
	respond.JSON(w, http.StatusOK, part)
}

func (h *PartHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := partID(r)
	if !ok {
		respond.Msg(w, http.StatusNotFound, msgPartNotFound)
		return
	}
	var patch dto.PartPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		respond.Msg(w, http.StatusBadRequest, err.Error())
		return
	}

	current, err := h.store.GetPart(r.Context(), id)
	if err != nil {
		h.storeError(w, "get part", id, err)
		return
	}
	if !patch.Empty() {
		if _, err := h.store.UpdatePart(r.Context(), patch.Apply(current)); err != nil {
			h.storeError(w, "update part", id, err)
			return
		}
	}
	respond.Msg(w, http.StatusOK, msgPartUpdated)
}

func (h *PartHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := partID(r)
	if !ok {
		respond.Msg(w, http.StatusNotFound, msgPartNotFound)
		return
	}
	if err := h.store.DeletePart(r.Context(), id); err != nil {
		h.storeError(w, "delete part", id, err)
		return
	}
	respond.Msg(w, http.StatusOK, msgPartDeleted)
}

func (h *PartHandler) storeError(w http.ResponseWriter, op string, id int64, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		respond.Msg(w, http.StatusNotFound, msgPartNotFound)
		return
	}
	h.log.Error(op, zap.Int64("part_id", id), zap.Error(err))
	respond.Msg(w, http.StatusInternalServerError, msgInternal)
}

// decodeBody reads exactly one JSON value into dst. It writes the error
// response itself and reports whether the handler may continue.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if err == nil {
		if _, tokErr := dec.Token(); !errors.Is(tokErr, io.EOF) {
			err = errTrailingData
		}
	}
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respond.Msg(w, http.StatusRequestEntityTooLarge, msgTooLarge)
		return false
	}
	respond.Msg(w, http.StatusBadRequest, msgInvalidJSON)
	return false
}

// partID parses the {id} path segment. Anything other than a non-negative
// integer cannot name a part.
func partID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
