package logging

import (
	"io"
	"strings"

	logger "github.com/sirupsen/logrus"
)

// Setup configures the standard logger for env and level and returns it.
// Development gets colored text; everything else gets JSON lines.
func Setup(env, level string, out io.Writer) *logger.Logger {
	l := logger.StandardLogger()
	Configure(l, env, level, out)
	return l
}

// Configure applies the formatter and level rules to l.
func Configure(l *logger.Logger, env, level string, out io.Writer) {
	if out != nil {
		l.SetOutput(out)
	}
	if IsDevelopment(env) {
		l.SetFormatter(&logger.TextFormatter{
			ForceColors:   out == nil,
			FullTimestamp: true,
		})
	} else {
		l.SetFormatter(&logger.JSONFormatter{})
	}
	lvl, err := logger.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logger.InfoLevel
	}
	l.SetLevel(lvl)
}

func IsDevelopment(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "development", "dev", "local":
		return true
	}
	return false
}
