package logging

import (
	"context"

	"github.com/alexisbeaulieu97/thermocard/internal/ports"
)

// Discard is the logger used by components built without one. Fields added
// with With are dropped along with the entries.
var Discard ports.Logger = discard{}

type discard struct{}

func (discard) Debug(context.Context, string, ...interface{}) {}
func (discard) Info(context.Context, string, ...interface{})  {}
func (discard) Warn(context.Context, string, ...interface{})  {}
func (discard) Error(context.Context, string, ...interface{}) {}

func (d discard) With(...interface{}) ports.Logger { return d }

// OrDiscard returns l, or Discard when l is nil. A typed nil *Logger is
// treated as nil.
func OrDiscard(l ports.Logger) ports.Logger {
	if l == nil {
		return Discard
	}
	if lg, ok := l.(*Logger); ok && lg == nil {
		return Discard
	}
	return l
}
