package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fleet-tracker-backend/internal/model"
)

// mockSender records delivered notifications instead of pushing them.
type mockSender struct {
	mu       sync.Mutex
	status   int
	payloads [][]byte
	targets  []string
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, payload)
	m.targets = append(m.targets, sub.Endpoint)
	status := m.status
	if status == 0 {
		status = http.StatusCreated
	}
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(""))}, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.PushSubscription{}))
	return db
}

func TestWorkerPoolDispatch(t *testing.T) {
	wp := NewWorkerPool(1, newTestDB(t), &webpush.Options{})

	wp.Dispatch(DueAlert{DefinitionID: 7, VehicleID: 3, Plate: "B-FT 101", Kind: "oil change"})

	select {
	case alert := <-wp.Jobs():
		assert.Equal(t, int64(7), alert.DefinitionID)
		assert.Equal(t, "B-FT 101", alert.Plate)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dispatched alert")
	}
}

func TestDeliverSendsToAllSubscribers(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.PushSubscription{Endpoint: "https://push.example/a", P256DH: "k1", Auth: "a1"}).Error)
	require.NoError(t, db.Create(&model.PushSubscription{Endpoint: "https://push.example/b", P256DH: "k2", Auth: "a2"}).Error)

	sender := &mockSender{}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = sender

	wp.deliver(context.Background(), DueAlert{DefinitionID: 1, VehicleID: 1, Plate: "B-FT 102", Kind: "inspection"})

	require.Len(t, sender.payloads, 2)
	assert.ElementsMatch(t, []string{"https://push.example/a", "https://push.example/b"}, sender.targets)

	var body map[string]string
	require.NoError(t, json.Unmarshal(sender.payloads[0], &body))
	assert.Contains(t, body["title"], "B-FT 102")
	assert.Contains(t, body["body"], "inspection")
}

func TestDeliverPrunesExpiredSubscriptions(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.PushSubscription{Endpoint: "https://push.example/gone", P256DH: "k", Auth: "a"}).Error)

	sender := &mockSender{status: http.StatusGone}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = sender

	wp.deliver(context.Background(), DueAlert{DefinitionID: 1, Plate: "B-FT 103", Kind: "oil change"})

	var count int64
	require.NoError(t, db.Model(&model.PushSubscription{}).Count(&count).Error)
	assert.Zero(t, count, "gone subscription deleted")
}

func TestDispatchNeverBlocksOnFullQueue(t *testing.T) {
	// No workers are started, so the queue fills up and stays full.
	wp := NewWorkerPool(1, newTestDB(t), &webpush.Options{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < alertQueueDepth+10; i++ {
			wp.Dispatch(DueAlert{DefinitionID: int64(i), Plate: "B-FT 105", Kind: "oil change"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
	assert.Len(t, wp.jobs, alertQueueDepth, "overflow alerts dropped, queued ones kept")
}

func TestWorkerDrainsQueue(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.PushSubscription{Endpoint: "https://push.example/w", P256DH: "k", Auth: "a"}).Error)

	sender := &mockSender{}
	wp := NewWorkerPool(2, db, &webpush.Options{})
	wp.sender = sender

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(DueAlert{DefinitionID: 1, Plate: "B-FT 104", Kind: "oil change"})
	wp.Dispatch(DueAlert{DefinitionID: 2, Plate: "B-FT 104", Kind: "inspection"})

	assert.Eventually(t, func() bool {
		sender.mu.Lock()
		defer sender.mu.Unlock()
		return len(sender.payloads) == 2
	}, 2*time.Second, 10*time.Millisecond)
}
