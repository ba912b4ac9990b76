package events

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	published []Event
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.published = append(p.published, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func TestDispatchRunsHandlersInOrder(t *testing.T) {
	bus := NewBus(nil, logrus.New())
	var calls []string
	bus.Subscribe(WorkoutLoggedName, func(_ context.Context, _ *gorm.DB, e Event) error {
		calls = append(calls, "first:"+e.(WorkoutLogged).WorkoutID)
		return nil
	})
	bus.Subscribe(WorkoutLoggedName, func(_ context.Context, _ *gorm.DB, _ Event) error {
		calls = append(calls, "second")
		return nil
	})
	bus.Subscribe(FriendshipAcceptedName, func(_ context.Context, _ *gorm.DB, _ Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	require.NoError(t, bus.Dispatch(context.Background(), nil, WorkoutLogged{WorkoutID: "w1"}))
	assert.Equal(t, []string{"first:w1", "second"}, calls)
}

func TestDispatchStopsAtFirstError(t *testing.T) {
	bus := NewBus(nil, logrus.New())
	boom := errors.New("boom")
	called := false
	bus.Subscribe(WorkoutLoggedName, func(context.Context, *gorm.DB, Event) error { return boom })
	bus.Subscribe(WorkoutLoggedName, func(context.Context, *gorm.DB, Event) error {
		called = true
		return nil
	})

	err := bus.Dispatch(context.Background(), nil, WorkoutLogged{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestPublishLogsFailures(t *testing.T) {
	log, hook := test.NewNullLogger()
	pub := &recordingPublisher{err: errors.New("broker down")}
	bus := NewBus(pub, log)

	bus.Publish(context.Background(), FriendshipAccepted{FriendshipID: 7})

	require.Len(t, pub.published, 1)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, FriendshipAcceptedName, hook.LastEntry().Data["event"])
}

func TestPublishWithoutPublisherIsNoop(t *testing.T) {
	bus := NewBus(nil, logrus.New())
	bus.Publish(context.Background(), WorkoutLogged{})
	assert.NoError(t, bus.Close())
}
