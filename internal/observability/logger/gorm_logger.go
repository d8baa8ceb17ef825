package logger

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

type GormLoggerConfig struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration
	// Not-found lookups are routine for the payout method and catalog
	// adapters, so they are skipped unless explicitly requested.
	LogRecordNotFound bool
}

func DefaultGormLoggerConfig() GormLoggerConfig {
	return GormLoggerConfig{
		Level:         gormlogger.Warn,
		SlowThreshold: 200 * time.Millisecond,
	}
}

// GormLogger routes gorm output through the request-scoped zap logger so
// SQL lines carry request_id, owner_id and trace ids.
type GormLogger struct {
	cfg  GormLoggerConfig
	base func(context.Context) *zap.Logger
}

func NewGormLogger(cfg GormLoggerConfig) *GormLogger {
	return &GormLogger{cfg: cfg, base: FromContext}
}

// newGormLoggerWith is used by tests to capture output.
func newGormLoggerWith(cfg GormLoggerConfig, log *zap.Logger) *GormLogger {
	return &GormLogger{cfg: cfg, base: func(ctx context.Context) *zap.Logger { return WithContext(ctx, log) }}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.cfg.Level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) message(ctx context.Context, min gormlogger.LogLevel, level zapcore.Level, msg string, data []interface{}) {
	if l.cfg.Level < min {
		return
	}
	fields := []zap.Field{zap.String("component", "gorm")}
	if len(data) > 0 {
		fields = append(fields, zap.Any("data", data))
	}
	if ce := l.base(ctx).Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.cfg.Level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	slow := l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold
	switch {
	case err != nil && l.cfg.Level >= gormlogger.Error && l.shouldLogError(err):
		l.query(ctx, fc, elapsed, slow, err, zapcore.ErrorLevel)
	case slow && l.cfg.Level >= gormlogger.Warn:
		l.query(ctx, fc, elapsed, slow, nil, zapcore.WarnLevel)
	case l.cfg.Level >= gormlogger.Info:
		l.query(ctx, fc, elapsed, slow, nil, zapcore.DebugLevel)
	}
}

func (l *GormLogger) shouldLogError(err error) bool {
	if errors.Is(err, gormlogger.ErrRecordNotFound) {
		return l.cfg.LogRecordNotFound
	}
	return true
}

// ParamsFilter drops bound values; sale references and payout ids stay out of logs.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}

func (l *GormLogger) query(ctx context.Context, fc func() (string, int64), elapsed time.Duration, slow bool, err error, level zapcore.Level) {
	sql, rows := fc()
	sql = strings.TrimSpace(sql)
	fields := []zap.Field{
		zap.String("component", "gorm"),
		zap.String("sql", sql),
		zap.String("operation", operationFromSQL(sql)),
		zap.String("table", tableFromSQL(sql)),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
		zap.Bool("slow", slow),
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows_affected", rows))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if ce := l.base(ctx).Check(level, "gorm.query"); ce != nil {
		ce.Write(fields...)
	}
}

func operationFromSQL(sql string) string {
	for _, token := range strings.Fields(strings.ToUpper(sql)) {
		token = strings.Trim(token, "();")
		switch token {
		case "SELECT", "INSERT", "UPDATE", "DELETE", "MERGE":
			return token
		}
	}
	return "UNKNOWN"
}

var tablePattern = regexp.MustCompile(`(?i)\b(?:from|into|update|join)\s+["` + "`" + `]?([a-z_][a-z0-9_]*)`)

func tableFromSQL(sql string) string {
	m := tablePattern.FindStringSubmatch(sql)
	if len(m) < 2 {
		return ""
	}
	return strings.ToLower(m[1])
}

var _ gormlogger.Interface = (*GormLogger)(nil)
