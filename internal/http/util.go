package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"seedbreed/internal/service"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := readBody(r, maxBytes)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func readBody(r *http.Request, maxBytes int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r.Body, maxBytes))
}

// pathKey 解析路径中的 {key}
func pathKey(r *http.Request) (int64, error) {
	raw := r.PathValue("key")
	key, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid key %q", raw)
	}
	return key, nil
}

// writeServiceError 校验类失败返回 warning，其余记日志后返回 error
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	if warning, ok := service.AsWarning(err); ok {
		writeJSON(w, http.StatusOK, Warn(warning.Message))
		return
	}
	var chatErr *service.ChatError
	if errors.As(err, &chatErr) {
		logger.Error(op+" failed", zap.String("reason", chatErr.Reason), zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("AI 服务请求失败（%s）", chatErr.Reason)))
		return
	}
	logger.Error(op+" failed", zap.Error(err))
	writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("%s failed: %v", op, err)))
}

// writeFile 下载文件，中文文件名按 RFC 2231 编码
func writeFile(w http.ResponseWriter, file *service.ExportFile) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}
