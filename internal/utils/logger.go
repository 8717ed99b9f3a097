package utils

import "go.uber.org/zap"

// NewLogger builds the process logger: human-readable in development,
// JSON in anything else.
func NewLogger(env string) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if env == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return log
}
