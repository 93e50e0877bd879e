package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	winner := uint(3)

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "battles", msg.Topic)
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "42", string(key))

		raw, err := msg.Value.Encode()
		require.NoError(t, err)
		var got Event
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, BattleFinished, got.Type)
		require.NotNil(t, got.WinnerID)
		assert.Equal(t, winner, *got.WinnerID)
		return nil
	})

	p := NewKafkaPublisher(producer, "battles")
	err := p.Publish(context.Background(), Event{
		Type: BattleFinished, BattleID: 42, BattleType: "stat_goal", WinnerID: &winner, OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(errors.New("broker down"))

	p := NewKafkaPublisher(producer, "battles")
	err := p.Publish(context.Background(), Event{Type: BattleStarted, BattleID: 1})
	assert.ErrorContains(t, err, "broker down")
	require.NoError(t, p.Close())
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
}
