package mykafkatest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kaii_store/internal/mykafka"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.PublishEvent(context.Background(), "1", mykafka.NewEvent(mykafka.ProductCreated, nil)))
	assert.Equal(t, []mykafka.EventType{mykafka.ProductCreated}, r.Types())

	r.Err = errors.New("nope")
	require.Error(t, r.PublishEvent(context.Background(), "2", mykafka.NewEvent(mykafka.ProductUpdated, nil)))
	assert.Len(t, r.Events(), 1)
	assert.Equal(t, "1", r.Events()[0].Key)
}
