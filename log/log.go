package log

import "github.com/sirupsen/logrus"

// Thin facade over logrus so the rest of the codebase never imports it
// directly and level constants stay in one place.

type Level = logrus.Level

const (
	FatalLevel = logrus.FatalLevel
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
)

var logger = logrus.New()

func init() {
	logger.Formatter = &logrus.TextFormatter{
		DisableLevelTruncation: true,
		PadLevelText:           true,
		TimestampFormat:        "2006/01/02 15:04:05",
		FullTimestamp:          true,
	}
}

func SetLevel(level Level) {
	logger.SetLevel(level)
}

func Log(level Level, args ...any) {
	logger.Logln(level, args...)
}
func Logf(level Level, fmt string, args ...any) {
	logger.Logf(level, fmt, args...)
}

func Debug(args ...any)              { logger.Debugln(args...) }
func Debugf(fmt string, args ...any) { logger.Debugf(fmt, args...) }

func Info(args ...any)              { logger.Infoln(args...) }
func Infof(fmt string, args ...any) { logger.Infof(fmt, args...) }

func Warn(args ...any)              { logger.Warnln(args...) }
func Warnf(fmt string, args ...any) { logger.Warnf(fmt, args...) }

func Error(args ...any)              { logger.Errorln(args...) }
func Errorf(fmt string, args ...any) { logger.Errorf(fmt, args...) }

func Fatal(args ...any)              { logger.Fatalln(args...) }
func Fatalf(fmt string, args ...any) { logger.Fatalf(fmt, args...) }
