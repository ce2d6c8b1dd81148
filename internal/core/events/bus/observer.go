package bus

import (
	"time"

	"github.com/zeusync/autolink/internal/core/observability/log"
)

type logObserver struct {
	logger log.Log
}

// NewLogObserver reports deliveries through logger: failed ones at warn
// level, the rest at debug.
func NewLogObserver(logger log.Log) EventBusObserver {
	if logger == nil {
		logger = log.NewNop()
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) OnPublish(string, Event) {}

func (o *logObserver) OnDelivered(eventType string, handlers int, err error, elapsed time.Duration) {
	if err != nil {
		o.logger.Warn("event handlers failed",
			log.String("event", eventType),
			log.Int("handlers", handlers),
			log.Duration("elapsed", elapsed),
			log.Error(err),
		)
		return
	}
	o.logger.Debug("event delivered",
		log.String("event", eventType),
		log.Int("handlers", handlers),
		log.Duration("elapsed", elapsed),
	)
}
