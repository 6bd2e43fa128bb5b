package rabbitmq_adapter

import (
	"farmboard/internal/core/port"
	"farmboard/pkg/rabbitmq/rabbitmq_common"
	"fmt"
	"strings"
	"time"
)

// danglingValueKey - ключ для значения без пары.
const danglingValueKey = "extra_value"

// PkgLoggerBridge адаптирует LoggerPort к интерфейсу логгера пакетов pkg/rabbitmq.
// Префикс "ConnectionManager: ..." в сообщении выносится в поле rabbit_component,
// значения приводятся к типам, которые fluent сериализует без потерь.
type PkgLoggerBridge struct {
	internalLogger port.LoggerPort
}

func NewPkgLoggerBridge(logger port.LoggerPort) rabbitmq_common.Logger {
	return &PkgLoggerBridge{internalLogger: logger}
}

func (b *PkgLoggerBridge) entry(msg string, keysAndValues []interface{}) (string, port.Fields) {
	fields := make(port.Fields, len(keysAndValues)/2+1)
	if prefix, rest, ok := strings.Cut(msg, ": "); ok && !strings.Contains(prefix, " ") {
		fields["rabbit_component"] = prefix
		msg = rest
	}

	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 == len(keysAndValues) {
			fields[danglingValueKey] = normalizeValue(keysAndValues[i])
			break
		}
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields[key] = normalizeValue(keysAndValues[i+1])
	}
	return msg, fields
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil, string, bool, int, int32, int64, uint, uint32, uint64, float64:
		return val
	case error:
		return val.Error()
	case time.Duration:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (b *PkgLoggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	m, fields := b.entry(msg, keysAndValues)
	b.internalLogger.Debug(m, fields)
}

func (b *PkgLoggerBridge) Info(msg string, keysAndValues ...interface{}) {
	m, fields := b.entry(msg, keysAndValues)
	b.internalLogger.Info(m, fields)
}

func (b *PkgLoggerBridge) Warn(msg string, keysAndValues ...interface{}) {
	m, fields := b.entry(msg, keysAndValues)
	b.internalLogger.Warn(m, fields)
}

func (b *PkgLoggerBridge) Error(err error, msg string, keysAndValues ...interface{}) {
	m, fields := b.entry(msg, keysAndValues)
	b.internalLogger.Error(m, err, fields)
}
