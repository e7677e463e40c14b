// Copyright 2022 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"os"

	"github.com/juju/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *zap.Logger
	// console receives human-readable logs. Standard output is left to results.
	console zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
)

func init() {
	logger = zap.New(newConsoleCore(zap.InfoLevel))
}

// Logger get current logger
func Logger() *zap.Logger {
	return logger
}

// CloseLogger flushes buffered logs and discards everything logged afterwards.
func CloseLogger() {
	_ = logger.Sync()
	logger = zap.NewNop()
}

func AddFlags(flagSet *pflag.FlagSet) {
	flagSet.String("log-level", "info", "minimal level of console logs")
	flagSet.Bool("quiet", false, "disable console logs")
	flagSet.String("log-path", "", "path of log file in JSON")
	flagSet.Int("log-max-size", 100, "maximum size in megabytes of the log file")
	flagSet.Int("log-max-age", 0, "maximum number of days to retain old log files")
	flagSet.Int("log-max-backups", 0, "maximum number of old log files to retain")
}

// SetLogger builds the logger from flags. Console logs go to standard error; the log
// file, if any, records every level in JSON. Debug mode lowers the console level to
// debug and adds callers.
func SetLogger(flagSet *pflag.FlagSet, debug bool) error {
	levelText, _ := flagSet.GetString("log-level")
	level, err := zapcore.ParseLevel(levelText)
	if err != nil {
		return errors.NewNotValid(err, "log level")
	}
	if debug {
		level = zap.DebugLevel
	}
	var cores []zapcore.Core
	if quiet, _ := flagSet.GetBool("quiet"); !quiet {
		cores = append(cores, newConsoleCore(level))
	}
	if flagSet.Changed("log-path") {
		path, _ := flagSet.GetString("log-path")
		maxSize, _ := flagSet.GetInt("log-max-size")
		maxAge, _ := flagSet.GetInt("log-max-age")
		maxBackups, _ := flagSet.GetInt("log-max-backups")
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   path,
				MaxSize:    maxSize,
				MaxBackups: maxBackups,
				MaxAge:     maxAge,
			}),
			zap.DebugLevel))
	}
	var options []zap.Option
	if debug {
		options = append(options, zap.AddCaller())
	}
	logger = zap.New(zapcore.NewTee(cores...), options...)
	return nil
}

func newConsoleCore(level zapcore.LevelEnabler) zapcore.Core {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), console, level)
}
