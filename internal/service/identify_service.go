package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"seedbreed/internal/ocr"

	"go.uber.org/zap"
)

const identifyPrompt = `以下是一张种子包装或标签图片的文字识别结果：
%s

请根据以上内容判断种子的品种和主要性状，并严格按以下格式回答：
品种：<品种名称>
性状：<主要性状描述>`

var (
	varietyPattern = regexp.MustCompile(`品种[:：]\s*([^\n]+)`)
	traitsPattern  = regexp.MustCompile(`性状[:：]\s*([^\n]+)`)
)

// Completer 对话补全
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// Identification 图片识别结果；Parsed=false 时只有 Raw 可用
type Identification struct {
	Variety string `json:"variety"`
	Traits  string `json:"traits"`
	Raw     string `json:"raw"`
	Parsed  bool   `json:"parsed"`
	OCRText string `json:"ocrText"`
}

// ExtractVarietyTraits 从回复中提取“品种：”“性状：”两行，尽力而为
func ExtractVarietyTraits(reply string) (variety, traits string, ok bool) {
	if m := varietyPattern.FindStringSubmatch(reply); m != nil {
		variety = strings.TrimSpace(m[1])
	}
	if m := traitsPattern.FindStringSubmatch(reply); m != nil {
		traits = strings.TrimSpace(m[1])
	}
	return variety, traits, variety != "" || traits != ""
}

// IdentifyService OCR 识别图片文字，再交给对话服务判断品种与性状
type IdentifyService struct {
	recognizer ocr.Recognizer
	chat       Completer
	logger     *zap.Logger
}

func NewIdentifyService(recognizer ocr.Recognizer, chat Completer, logger *zap.Logger) *IdentifyService {
	return &IdentifyService{recognizer: recognizer, chat: chat, logger: logger}
}

func (s *IdentifyService) Identify(ctx context.Context, image []byte) (*Identification, error) {
	text, err := s.recognizer.Recognize(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("failed to recognize image: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, warn(MsgNoTextRecognized)
	}

	reply, err := s.chat.Complete(ctx, []ChatMessage{
		{Role: "user", Content: fmt.Sprintf(identifyPrompt, text)},
	})
	if err != nil {
		return nil, err
	}

	out := &Identification{Raw: reply, OCRText: text}
	out.Variety, out.Traits, out.Parsed = ExtractVarietyTraits(reply)
	if !out.Parsed {
		s.logger.Info("Identify reply did not match variety/traits pattern", zap.Int("reply_len", len(reply)))
	}
	return out, nil
}
