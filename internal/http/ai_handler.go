package httpapi

import (
	"io"
	"net/http"
	"strings"

	"seedbreed/internal/service"

	"go.uber.org/zap"
)

// AIHandler AI 对话与图片识别
type AIHandler struct {
	chat     service.Completer
	identify *service.IdentifyService
	logger   *zap.Logger
}

func NewAIHandler(chat service.Completer, identify *service.IdentifyService, logger *zap.Logger) *AIHandler {
	return &AIHandler{chat: chat, identify: identify, logger: logger}
}

// Chat body: {"messages": [{"role": "user", "content": "..."}]}
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Messages []service.ChatMessage `json:"messages"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if len(payload.Messages) == 0 || strings.TrimSpace(payload.Messages[len(payload.Messages)-1].Content) == "" {
		writeJSON(w, http.StatusOK, Warn("请输入问题"))
		return
	}

	reply, err := h.chat.Complete(r.Context(), payload.Messages)
	if err != nil {
		writeServiceError(w, h.logger, "Chat", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"reply": reply}))
}

// Identify multipart 字段 image
func (h *AIHandler) Identify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusOK, Fail("failed to parse form"))
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusOK, Warn("请上传图片"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("failed to read file"))
		return
	}

	out, err := h.identify.Identify(r.Context(), data)
	if err != nil {
		writeServiceError(w, h.logger, "Identify", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}
