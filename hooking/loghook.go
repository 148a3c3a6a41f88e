package hooking

import (
	"fmt"
	"log"
)

// Named is implemented by domains that can identify themselves in log lines.
type Named interface {
	Name() string
}

// A LogHook prints every hook invocation it receives as one log line.
type LogHook struct {
	*log.Logger
}

// NewLogHook creates a LogHook that writes through the given logger.
func NewLogHook(logger *log.Logger) *LogHook {
	return &LogHook{Logger: logger}
}

// Func writes the position, domain and item of the invocation.
func (h *LogHook) Func(ctx HookCtx) {
	domain := "?"
	if named, ok := ctx.Domain.(Named); ok {
		domain = named.Name()
	}

	pos := "?"
	if ctx.Pos != nil {
		pos = ctx.Pos.Name
	}

	line := fmt.Sprintf("%s %s %v", domain, pos, ctx.Item)
	if ctx.Detail != nil {
		line += fmt.Sprintf(" (%v)", ctx.Detail)
	}

	h.Println(line)
}
