package handler

import "notafiscal-server/internal/domain"

// Mock logger used by handler package tests.
type MockHandlerLogger struct {
	errors int
}

func NewMockHandlerLogger() *MockHandlerLogger {
	return &MockHandlerLogger{}
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{})  {}
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{}) {}
func (l *MockHandlerLogger) Warn(msg string, fields ...interface{})  {}
func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {
	l.errors++
}

var _ domain.Logger = (*MockHandlerLogger)(nil)
