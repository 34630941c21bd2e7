package dice

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// LoggedSource wraps a Source and logs every draw at debug level, tagged with
// a running draw counter so a match can be replayed from its log.
type LoggedSource struct {
	src    Source
	logger *zap.Logger
	draws  atomic.Uint64
}

// NewLoggedSource creates a LoggedSource that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedSource(src Source, logger *zap.Logger) *LoggedSource {
	return &LoggedSource{src: src, logger: logger}
}

// Float64 draws from the wrapped source and logs the value.
//
// Postcondition: Returns exactly the value produced by the wrapped source.
func (l *LoggedSource) Float64() float64 {
	v := l.src.Float64()
	n := l.draws.Add(1)
	l.logger.Debug("dice draw",
		zap.Uint64("draw", n),
		zap.Float64("value", v),
	)
	return v
}

// Draws returns how many values have been drawn so far.
func (l *LoggedSource) Draws() uint64 { return l.draws.Load() }
