package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// 默认识别语言：简体中文 + 英文
const DefaultLang = "chi_sim+eng"

// 宽度不足时放大到该宽度，小图识别率很低
const minWidth = 1200

var ErrEmptyImage = errors.New("empty image")

// Recognizer 图片文字识别
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// TesseractRecognizer 调用本机 tesseract 命令识别
type TesseractRecognizer struct {
	path   string
	lang   string
	logger *zap.Logger
}

func NewTesseractRecognizer(path, lang string, logger *zap.Logger) *TesseractRecognizer {
	if path == "" {
		path = "tesseract"
	}
	if lang == "" {
		lang = DefaultLang
	}
	return &TesseractRecognizer{path: path, lang: lang, logger: logger}
}

// Preprocess 灰度、放大小图、增强对比度、轻度锐化
func Preprocess(img image.Image) image.Image {
	out := imaging.Grayscale(img)
	if w := out.Bounds().Dx(); w > 0 && w < minWidth {
		out = imaging.Resize(out, minWidth, 0, imaging.Lanczos)
	}
	out = imaging.AdjustContrast(out, 20)
	return imaging.Sharpen(out, 0.6)
}

func (t *TesseractRecognizer) Recognize(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	var png bytes.Buffer
	if err := imaging.Encode(&png, Preprocess(img), imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.path, "stdin", "stdout", "-l", t.lang)
	cmd.Stdin = &png
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.logger.Error("tesseract failed",
			zap.String("path", t.path),
			zap.String("stderr", strings.TrimSpace(stderr.String())),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to run tesseract: %w", err)
	}

	text := strings.TrimSpace(stdout.String())
	t.logger.Debug("tesseract finished", zap.Int("text_len", len(text)))
	return text, nil
}
