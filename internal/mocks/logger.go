package mocks

import (
	"github.com/stretchr/testify/mock"
	"weatherbot.app/internal/ports"
)

// Logger is a mock implementation of ports.Logger
type Logger struct {
	mock.Mock
}

func (_m *Logger) Debug(msg string, fields ...ports.Field) {
	_m.Called(msg, fields)
}

func (_m *Logger) Info(msg string, fields ...ports.Field) {
	_m.Called(msg, fields)
}

func (_m *Logger) Warn(msg string, fields ...ports.Field) {
	_m.Called(msg, fields)
}

func (_m *Logger) Error(msg string, fields ...ports.Field) {
	_m.Called(msg, fields)
}

// NewLogger creates a new Logger mock and registers expectation assertions on cleanup
func NewLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *Logger {
	m := &Logger{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// NewPermissiveLogger creates a Logger mock that accepts any call at any level
func NewPermissiveLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *Logger {
	m := NewLogger(t)
	for _, level := range []string{"Debug", "Info", "Warn", "Error"} {
		m.On(level, mock.Anything, mock.Anything).Maybe()
	}
	return m
}
