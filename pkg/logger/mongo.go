package logger

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.uber.org/zap"
)

// MongoMonitor logs MongoDB commands through the same statement log as
// GormLogger. hello/isMaster heartbeats are skipped.
type MongoMonitor struct {
	statementLog

	mu       sync.Mutex
	commands map[int64]string
}

// NewMongoMonitor creates a command monitor for the mongo client options
func NewMongoMonitor(l *zap.Logger, slowQuerySeconds float64) *MongoMonitor {
	return &MongoMonitor{
		statementLog: statementLog{
			log:           l.Named("mongo"),
			kind:          "mongo",
			slowThreshold: secondsToDuration(slowQuerySeconds),
		},
		commands: make(map[int64]string),
	}
}

// CommandMonitor returns the driver hook
func (m *MongoMonitor) CommandMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Started:   m.started,
		Succeeded: m.succeeded,
		Failed:    m.failed,
	}
}

func (m *MongoMonitor) started(_ context.Context, evt *event.CommandStartedEvent) {
	if evt.CommandName == "hello" || evt.CommandName == "isMaster" {
		return
	}

	var cmd string
	if evt.Command != nil {
		cmd = bson.Raw(evt.Command).String()
	}

	m.mu.Lock()
	m.commands[evt.RequestID] = cmd
	m.mu.Unlock()
}

func (m *MongoMonitor) take(requestID int64) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd, ok := m.commands[requestID]
	delete(m.commands, requestID)
	return cmd, ok
}

func (m *MongoMonitor) succeeded(ctx context.Context, evt *event.CommandSucceededEvent) {
	if cmd, ok := m.take(evt.RequestID); ok {
		m.record(ctx, cmd, evt.Duration, nil, zap.String("command_name", evt.CommandName))
	}
}

func (m *MongoMonitor) failed(ctx context.Context, evt *event.CommandFailedEvent) {
	if cmd, ok := m.take(evt.RequestID); ok {
		m.record(ctx, cmd, evt.Duration, errors.New(evt.Failure), zap.String("command_name", evt.CommandName))
	}
}
