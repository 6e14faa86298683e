package logger

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type cronLogger struct {
	sugar *zap.SugaredLogger
}

// Cron adapts l to the scheduler's logger. Scheduler chatter goes to debug,
// job errors and recovered panics to error.
func Cron(l *zap.Logger) cron.Logger {
	return cronLogger{sugar: l.Named("cron").Sugar()}
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.sugar.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.sugar.Errorw(msg, append([]interface{}{zap.Error(err)}, keysAndValues...)...)
}
