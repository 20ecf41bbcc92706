package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"weatherbot.app/internal/ports"
)

// NotificationStore is a mock implementation of ports.NotificationStore
type NotificationStore struct {
	mock.Mock
}

func (_m *NotificationStore) Save(ctx context.Context, chatID int64, city, timeOfDay string) error {
	ret := _m.Called(ctx, chatID, city, timeOfDay)
	return ret.Error(0)
}

func (_m *NotificationStore) Get(ctx context.Context, chatID int64) (*ports.ScheduleData, error) {
	ret := _m.Called(ctx, chatID)

	var r0 *ports.ScheduleData
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*ports.ScheduleData)
	}

	return r0, ret.Error(1)
}

func (_m *NotificationStore) GetAll(ctx context.Context) (map[string]ports.ScheduleData, error) {
	ret := _m.Called(ctx)

	var r0 map[string]ports.ScheduleData
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[string]ports.ScheduleData)
	}

	return r0, ret.Error(1)
}

func (_m *NotificationStore) Delete(ctx context.Context, chatID int64) (bool, error) {
	ret := _m.Called(ctx, chatID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *NotificationStore) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}

// NewNotificationStore creates a new NotificationStore mock and registers expectation assertions on cleanup
func NewNotificationStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *NotificationStore {
	m := &NotificationStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Messenger is a mock implementation of ports.Messenger
type Messenger struct {
	mock.Mock
}

func (_m *Messenger) Send(ctx context.Context, chatID int64, text string) error {
	ret := _m.Called(ctx, chatID, text)
	return ret.Error(0)
}

// NewMessenger creates a new Messenger mock and registers expectation assertions on cleanup
func NewMessenger(t interface {
	mock.TestingT
	Cleanup(func())
}) *Messenger {
	m := &Messenger{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
