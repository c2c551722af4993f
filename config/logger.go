package config

import (
	"sync"

	"go.uber.org/zap"
)

var (
	appLogger  *zap.Logger
	onceLogger sync.Once
)

// Logger returns the shared application logger. Production builds log JSON,
// everything else uses the human-readable development encoder.
func Logger() *zap.Logger {
	onceLogger.Do(func() {
		var err error
		if IsProduction() {
			appLogger, err = zap.NewProduction()
		} else {
			appLogger, err = zap.NewDevelopment()
		}
		if err != nil {
			panic(err)
		}
	})
	return appLogger
}
