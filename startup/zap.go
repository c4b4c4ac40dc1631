package startup

import (
	"time"

	"go.uber.org/zap"
)

// ZapObserver writes observations to a zap.Logger for hosts that log
// through zap instead of slog.
type ZapObserver struct {
	l *zap.Logger
}

// NewZapObserver returns nil for a nil logger, like NewLogObserver.
func NewZapObserver(l *zap.Logger) Observer {
	if l == nil {
		return nil
	}
	return &ZapObserver{l: l}
}

func (o *ZapObserver) Started(module, capability string) {
	if ce := o.l.Check(zap.InfoLevel, "startup phase started"); ce != nil {
		ce.Write(zap.String("capability", capability), zap.String("module", module))
	}
}

func (o *ZapObserver) Running(capability, implementer string) {
	if ce := o.l.Check(zap.InfoLevel, "running startup action"); ce != nil {
		ce.Write(zap.String("capability", capability), zap.String("implementer", implementer))
	}
}

func (o *ZapObserver) Failed(err error, capability, implementer string) {
	if ce := o.l.Check(zap.ErrorLevel, "startup action failed"); ce != nil {
		ce.Write(
			zap.String("capability", capability),
			zap.String("implementer", implementer),
			zap.Error(err),
		)
	}
}

func (o *ZapObserver) Completed(module, capability string, elapsed time.Duration) {
	if ce := o.l.Check(zap.InfoLevel, "startup phase completed"); ce != nil {
		ce.Write(
			zap.String("capability", capability),
			zap.String("module", module),
			zap.Int64("elapsed_ms", elapsed.Milliseconds()),
		)
	}
}
