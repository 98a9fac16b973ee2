package config

import (
	"io"
	"log"
	"os"

	"github.com/natefinch/lumberjack"
)

type LogConfig struct {
	File    string `yaml:"file" toml:"file"`
	MaxSize int    `yaml:"max_size" toml:"max_size"` // megabytes
	MaxAge  int    `yaml:"max_age" toml:"max_age"`   // days
}

// SetLogger returns a logger writing to stdout and, when File is set, to a
// rotating log file as well. The closer releases the file.
func (c *LogConfig) SetLogger(prefix string) (*log.Logger, io.Closer) {
	flags := log.LstdFlags | log.Lmicroseconds
	if c == nil || c.File == "" {
		return log.New(os.Stdout, prefix, flags), nopCloser{}
	}
	l := &lumberjack.Logger{
		Filename: c.File,
		MaxSize:  c.MaxSize,
		MaxAge:   c.MaxAge,
	}
	return log.New(io.MultiWriter(os.Stdout, l), prefix, flags), l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
