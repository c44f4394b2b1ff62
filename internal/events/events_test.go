package events

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

func TestNewScheduleMaterialized(t *testing.T) {
	a1 := uuid.Must(uuid.NewV4())
	a2 := uuid.Must(uuid.NewV4())
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	s := &ledger.Schedule{
		ID:                uuid.Must(uuid.NewV4()),
		ChildID:           uuid.Must(uuid.NewV4()),
		NextExecutionDate: time.Date(2025, 4, 8, 0, 0, 0, 0, time.UTC),
	}
	created := []*ledger.Transaction{
		{ID: uuid.Must(uuid.NewV4()), AccountID: a1, Amount: decimal.NewFromInt(5)},
		{ID: uuid.Must(uuid.NewV4()), AccountID: a2, Amount: decimal.NewFromInt(5)},
		{ID: uuid.Must(uuid.NewV4()), AccountID: a1, Amount: decimal.NewFromInt(5)},
	}

	msg := NewScheduleMaterialized(s, created, now)

	assert.Equal(t, s.ID, msg.ScheduleID)
	assert.Equal(t, s.ChildID, msg.ChildID)
	assert.Len(t, msg.TransactionIDs, 3)
	assert.Len(t, msg.AccountIDs, 2)
	assert.True(t, msg.Total.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "2025-04-08", msg.NextExecutionDate)
	assert.False(t, msg.Completed)

	body, err := msg.ToJSON()
	require.NoError(t, err)
	decoded, err := ScheduleMaterializedFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, msg.ScheduleID, decoded.ScheduleID)
	assert.True(t, decoded.Total.Equal(msg.Total))
}

func TestNewPublisher_DisabledWithoutURL(t *testing.T) {
	pub, err := NewPublisher("", "allowance", "ledger.schedule_materialized", logrus.New())

	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, pub)
	assert.NoError(t, pub.PublishScheduleMaterialized(context.Background(), &ScheduleMaterialized{}))
	assert.NoError(t, pub.Close())
}

func TestScheduleMaterializedFromJSON_Invalid(t *testing.T) {
	_, err := ScheduleMaterializedFromJSON([]byte("{"))

	assert.Error(t, err)
}
