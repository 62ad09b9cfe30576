package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type impl struct {
	*zap.SugaredLogger

	name  string
	level zap.AtomicLevel
	// base is the unfiltered output shared with subloggers
	base zapcore.Core
}

func newImpl(name string, level Level, base zapcore.Core) *impl {
	atomicLevel := zap.NewAtomicLevelAt(level.AsZap())
	// base cores accept every level, so gating them on an atomic level can never fail
	//nolint:errcheck
	core, _ := zapcore.NewIncreaseLevelCore(base, atomicLevel)
	logger := zap.New(core, zap.AddCaller())
	if name != "" {
		logger = logger.Named(name)
	}
	return &impl{
		SugaredLogger: logger.Sugar(),
		name:          name,
		level:         atomicLevel,
		base:          base,
	}
}

func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = fmt.Sprintf("%s.%s", imp.name, subname)
	}
	return newImpl(newName, imp.GetLevel(), imp.base)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.SetLevel(level.AsZap())
}

func (imp *impl) GetLevel() Level {
	switch imp.level.Level() {
	case zapcore.DebugLevel:
		return DEBUG
	case zapcore.WarnLevel:
		return WARN
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return ERROR
	default:
		return INFO
	}
}
