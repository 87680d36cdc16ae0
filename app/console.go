package app

import (
	"tftkit/gfx"
	"tftkit/hal"
	"tftkit/kernel"
)

// consoleSink queues log lines for the on-screen console. Loggers may be
// called by the composer itself, so lines are only written to the console
// from Tick; when the queue is full new lines are dropped.
type consoleSink struct {
	lines *kernel.Mailbox[string]
}

func newConsoleSink(n int) *consoleSink {
	return &consoleSink{lines: kernel.NewMailbox[string](n)}
}

func (s *consoleSink) WriteLineString(line string) {
	s.lines.TrySend(line)
}

func (s *consoleSink) WriteLineBytes(b []byte) { s.WriteLineString(string(b)) }

// flush writes every queued line to c.
func (s *consoleSink) flush(c *gfx.Console) {
	for {
		line, ok := s.lines.TryRecv()
		if !ok {
			return
		}
		c.WriteLineString(line)
	}
}

// teeLogger writes every line to both loggers.
type teeLogger struct {
	a, b hal.Logger
}

func (t teeLogger) WriteLineString(s string) {
	t.a.WriteLineString(s)
	t.b.WriteLineString(s)
}

func (t teeLogger) WriteLineBytes(b []byte) {
	t.a.WriteLineBytes(b)
	t.b.WriteLineBytes(b)
}
