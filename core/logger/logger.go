/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logger holds the process-wide logger used for diagnostics.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the shared logger. It writes to stdout until InitLogger is called.
var Log = logrus.New()

// LoggerConfig controls log level and optional file rotation.
type LoggerConfig struct {
	Level     string `koanf:"level"`
	File      string `koanf:"file"`
	FileSize  int    `koanf:"file_size"` // megabytes
	FileCount int    `koanf:"file_count"`
	Compress  bool   `koanf:"compress"`
}

// InitLogger applies config to Log. An empty File keeps output on stdout only.
func InitLogger(config LoggerConfig) {
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	Log.SetLevel(ParseLevel(config.Level))

	if config.File == "" {
		Log.SetOutput(os.Stdout)
		return
	}
	mw := io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   config.File,
		MaxSize:    config.FileSize,
		MaxBackups: config.FileCount,
		MaxAge:     28, //days
		Compress:   config.Compress,
	})
	Log.SetOutput(mw)
}

// ParseLevel maps a config level name to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warning", "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
