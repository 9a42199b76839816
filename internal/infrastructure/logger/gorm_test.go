package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return `SELECT * FROM "orders" WHERE id = $1`, 1 }
	slowStart := time.Now().Add(-time.Second)

	tests := []struct {
		name    string
		cfg     GormConfig
		begin   time.Time
		err     error
		message string
	}{
		{"failure", DefaultGormConfig(gormlogger.Warn), time.Now(), errors.New("deadlock detected"), "SQL failed"},
		{"not found is quiet", DefaultGormConfig(gormlogger.Warn), time.Now(), gormlogger.ErrRecordNotFound, ""},
		{"not found when asked", GormConfig{Level: gormlogger.Warn, LogNotFound: true}, time.Now(), gormlogger.ErrRecordNotFound, "SQL failed"},
		{"slow", DefaultGormConfig(gormlogger.Warn), slowStart, nil, "Slow SQL"},
		{"slow logs disabled", GormConfig{Level: gormlogger.Warn}, slowStart, nil, ""},
		{"fast at warn", DefaultGormConfig(gormlogger.Warn), time.Now(), nil, ""},
		{"fast at info", DefaultGormConfig(gormlogger.Info), time.Now(), nil, "SQL"},
		{"silent", DefaultGormConfig(gormlogger.Silent), time.Now(), errors.New("x"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			NewGormLogger(zap.New(core), tt.cfg).Trace(context.Background(), tt.begin, query, tt.err)

			if tt.message == "" {
				assert.Zero(t, recorded.Len())
				return
			}
			entries := recorded.FilterMessage(tt.message).All()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, "gorm", entries[0].LoggerName)
				assert.Equal(t, int64(1), entries[0].ContextMap()["rows"])
			}
		})
	}
}

func TestGormLogger_ContextFields(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), DefaultGormConfig(gormlogger.Info))

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-42")
	ctx, _ = WithUserID(ctx, zap.NewNop(), "user-7")
	gl.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 0 }, nil)

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "user-7", fields["user_id"])
	assert.NotContains(t, fields, "trace_id")
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), DefaultGormConfig(gormlogger.Info))
	quiet := gl.LogMode(gormlogger.Silent)

	quiet.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, nil)
	assert.Zero(t, recorded.Len())
	assert.Equal(t, gormlogger.Info, gl.cfg.Level)
}

func TestGormLogger_ParamsFilter(t *testing.T) {
	hidden := NewGormLogger(zap.NewNop(), DefaultGormConfig(gormlogger.Info))
	sql, params := hidden.ParamsFilter(context.Background(), "UPDATE users SET password_hash = ?", "$2a$10$secret")
	assert.Equal(t, "UPDATE users SET password_hash = ?", sql)
	assert.Nil(t, params)

	cfg := DefaultGormConfig(gormlogger.Info)
	cfg.ShowParams = true
	_, params = NewGormLogger(zap.NewNop(), cfg).ParamsFilter(context.Background(), "SELECT ?", 1)
	assert.Equal(t, []any{1}, params)
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
	assert.Equal(t, gormlogger.Error, GormLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel("info"))
	assert.Equal(t, gormlogger.Warn, GormLevel(""))
}
