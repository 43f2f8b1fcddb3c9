package logger

import (
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileLogger writes to a size-capped log file with a bounded number of
// rotated backups, so a long-lived background instance can never fill the
// disk beside the tables it watches.
type FileLogger struct {
	*StandardLogger
	sink *lumberjack.Logger
}

// NewFileLogger creates a rotating file logger. maxSizeMB caps the live
// file's size and maxBackups bounds how many rotated files are kept.
func NewFileLogger(path string, maxSizeMB, maxBackups int) *FileLogger {
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
	return &FileLogger{
		StandardLogger: NewStandardLogger(log.New(sink, "", log.LstdFlags)),
		sink:           sink,
	}
}

// Close closes the underlying file.
func (f *FileLogger) Close() error {
	return f.sink.Close()
}

var _ Logger = (*FileLogger)(nil)
