package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"seedbreed/internal/service"

	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

// listService 各集合共有的列表操作
type listService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, key int64, patch []byte) (T, error)
	Delete(ctx context.Context, key int64) error
	BatchDelete(ctx context.Context, keys []int64) (int, error)
	Import(ctx context.Context, filename string, r io.Reader, encoding string) (int, error)
	Export(ctx context.Context, format, encoding string) (*service.ExportFile, error)
}

type listHandler[T any] struct {
	svc    listService[T]
	logger *zap.Logger
}

func newListHandler[T any](svc listService[T], logger *zap.Logger) *listHandler[T] {
	return &listHandler[T]{svc: svc, logger: logger}
}

func (h *listHandler[T]) register(r *Router, base string) {
	r.Handle("GET "+base, h.list)
	r.Handle("PUT "+base+"/{key}", h.update)
	r.Handle("DELETE "+base+"/{key}", h.remove)
	r.Handle("POST "+base+"/batch-delete", h.batchDelete)
	r.Handle("POST "+base+"/import", h.importFile)
	r.Handle("GET "+base+"/export", h.export)
}

func writeList[T any](w http.ResponseWriter, items []T) {
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items": items,
		"total": len(items),
	}))
}

func (h *listHandler[T]) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "List", err)
		return
	}
	writeList(w, items)
}

func (h *listHandler[T]) update(w http.ResponseWriter, r *http.Request) {
	key, err := pathKey(r)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	patch, err := readBody(r, 1<<20)
	if err != nil || (len(patch) > 0 && !json.Valid(patch)) {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	out, err := h.svc.Update(r.Context(), key, patch)
	if err != nil {
		writeServiceError(w, h.logger, "Update", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

func (h *listHandler[T]) remove(w http.ResponseWriter, r *http.Request) {
	key, err := pathKey(r)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	if err := h.svc.Delete(r.Context(), key); err != nil {
		writeServiceError(w, h.logger, "Delete", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"success": true}))
}

func (h *listHandler[T]) batchDelete(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Keys []int64 `json:"keys"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	n, err := h.svc.BatchDelete(r.Context(), payload.Keys)
	if err != nil {
		writeServiceError(w, h.logger, "BatchDelete", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"success": true,
		"deleted": n,
	}))
}

// importFile multipart 字段 file；csv 可带 encoding（utf8 / gbk）
func (h *listHandler[T]) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusOK, Fail("failed to parse form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("file not found in request"))
		return
	}
	defer file.Close()

	n, err := h.svc.Import(r.Context(), header.Filename, file, r.FormValue("encoding"))
	if err != nil {
		writeServiceError(w, h.logger, "Import", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"imported": n,
		"message":  fmt.Sprintf("成功导入 %d 条记录", n),
	}))
}

func (h *listHandler[T]) export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	file, err := h.svc.Export(r.Context(), q.Get("format"), q.Get("encoding"))
	if err != nil {
		writeServiceError(w, h.logger, "Export", err)
		return
	}
	writeFile(w, file)
}
