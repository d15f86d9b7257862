package service

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmukendi/coopec-service/internal/config"
	"github.com/bmukendi/coopec-service/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestEmit_StampsReceiptAndReference(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, quietLogger(), &config.Config{})

	svc.emit(models.LedgerEvent{Type: models.EventCreditGranted})

	select {
	case ev := <-svc.Events():
		assert.NotEmpty(t, ev.Receipt)
		require.Len(t, ev.Reference, 12)
		assert.True(t, strings.HasPrefix(ev.Reference, "OP"), "reference %s", ev.Reference)
		assert.False(t, ev.OccurredAt.IsZero())
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestEmit_DropsWhenQueueFull(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, quietLogger(), &config.Config{})
	for i := 0; i < 70; i++ {
		svc.emit(models.LedgerEvent{Type: models.EventCreditSettled})
	}

	// the buffer holds 64; the surplus is dropped, never blocked on
	count := 0
	for {
		select {
		case <-svc.Events():
			count++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 64, count)
}
