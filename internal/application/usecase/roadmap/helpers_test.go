package roadmap

import (
	"go.uber.org/zap"

	"github.com/careercompass/careercompass/pkg/logger"
)

func boolPtr(b bool) *bool { return &b }

type nopLogger struct{}

func newTestLogger() logger.Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...zap.Field)        {}
func (nopLogger) Info(string, ...zap.Field)         {}
func (nopLogger) Warn(string, ...zap.Field)         {}
func (nopLogger) Error(string, error, ...zap.Field) {}
func (nopLogger) Fatal(string, error, ...zap.Field) {}
func (l nopLogger) With(...zap.Field) logger.Logger { return l }
