package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	parts := splitMessage("aaaa\nbbbb\ncccc", 10)
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, parts)

	parts = splitMessage(strings.Repeat("x", 25), 10)
	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, parts)
}

func TestTelegramNotify(t *testing.T) {
	api := &fakeSender{}
	tg := &Telegram{api: api, chatID: 42}

	require.NoError(t, tg.Notify(context.Background(), "hello"))
	require.Len(t, api.sent, 1)
	assert.Equal(t, int64(42), api.sent[0].ChatID)
	assert.Equal(t, "hello", api.sent[0].Text)
	assert.True(t, api.sent[0].DisableWebPagePreview)

	long := strings.Repeat("line of text\n", 400)
	require.NoError(t, tg.Notify(context.Background(), long))
	assert.Greater(t, len(api.sent), 2)
	for _, msg := range api.sent {
		assert.LessOrEqual(t, len(msg.Text), maxMessageLen)
	}

	api.err = errors.New("boom")
	assert.ErrorContains(t, tg.Notify(context.Background(), "x"), "boom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tg.Notify(ctx, "x"), context.Canceled)
}
