package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNopMailer(t *testing.T) {
	m := NopMailer{Log: zap.NewNop()}
	assert.NoError(t, m.Send(context.Background(), "a@b.c", "hi", "body"))
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m := NewSMTPMailer("localhost", 2525, "", "", "noreply@yoohoo.guru")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, "a@b.c", "hi", "body"), context.Canceled)
}
