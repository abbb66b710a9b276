package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// zerologWriter feeds GORM's formatted log lines into zerolog.
type zerologWriter struct {
	log zerolog.Logger
}

func (w zerologWriter) Printf(format string, args ...any) {
	w.log.Warn().Msg(fmt.Sprintf(format, args...))
}

// NewGormLogger reports SQL errors and slow queries through l. Lookup misses
// are part of normal control flow and stay silent.
func NewGormLogger(l zerolog.Logger) gormlogger.Interface {
	return gormlogger.New(zerologWriter{log: l}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
