package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRecognizer struct {
	text string
	err  error
}

func (f fakeRecognizer) Recognize(context.Context, []byte) (string, error) {
	return f.text, f.err
}

type fakeCompleter struct {
	reply string
	err   error
	got   []ChatMessage
}

func (f *fakeCompleter) Complete(_ context.Context, messages []ChatMessage) (string, error) {
	f.got = messages
	return f.reply, f.err
}

func TestExtractVarietyTraits(t *testing.T) {
	v, tr, ok := ExtractVarietyTraits("品种：京欣一号\n性状: 早熟，圆果，红瓤")
	assert.True(t, ok)
	assert.Equal(t, "京欣一号", v)
	assert.Equal(t, "早熟，圆果，红瓤", tr)

	v, tr, ok = ExtractVarietyTraits("无法判断图片内容")
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.Empty(t, tr)
}

func TestIdentify(t *testing.T) {
	chat := &fakeCompleter{reply: "品种：早佳8424\n性状：椭圆形，皮薄"}
	svc := NewIdentifyService(fakeRecognizer{text: " 早佳 8424 西瓜种子 "}, chat, zap.NewNop())

	out, err := svc.Identify(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.True(t, out.Parsed)
	assert.Equal(t, "早佳8424", out.Variety)
	assert.Equal(t, "椭圆形，皮薄", out.Traits)
	assert.Equal(t, "早佳 8424 西瓜种子", out.OCRText)

	require.Len(t, chat.got, 1)
	assert.Contains(t, chat.got[0].Content, "早佳 8424 西瓜种子")
}

func TestIdentify_RawReplyWhenPatternMisses(t *testing.T) {
	chat := &fakeCompleter{reply: "这看起来是一包蔬菜种子。"}
	svc := NewIdentifyService(fakeRecognizer{text: "蔬菜"}, chat, zap.NewNop())

	out, err := svc.Identify(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.False(t, out.Parsed)
	assert.Equal(t, "这看起来是一包蔬菜种子。", out.Raw)
}

func TestIdentify_Failures(t *testing.T) {
	_, err := NewIdentifyService(fakeRecognizer{text: "  "}, &fakeCompleter{}, zap.NewNop()).
		Identify(context.Background(), nil)
	requireWarning(t, err, MsgNoTextRecognized)

	_, err = NewIdentifyService(fakeRecognizer{err: errors.New("tesseract missing")}, &fakeCompleter{}, zap.NewNop()).
		Identify(context.Background(), nil)
	require.Error(t, err)

	chatErr := &ChatError{Reason: ChatReasonStatus, StatusCode: 502}
	_, err = NewIdentifyService(fakeRecognizer{text: "x"}, &fakeCompleter{err: chatErr}, zap.NewNop()).
		Identify(context.Background(), nil)
	var ce *ChatError
	require.ErrorAs(t, err, &ce)
}
