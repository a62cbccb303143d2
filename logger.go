package kafka

import (
	"io"
	"log"
)

// StdLogger is the minimal logging interface this package requires. It is
// satisfied by *log.Logger, so callers can plug any logger in by adapting it.
type StdLogger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// Logger is the instance used to log internal events, including protocol
// errors and retry attempts. By default it discards everything; assign a
// real logger (or adapt one) before use.
var Logger StdLogger = log.New(io.Discard, "[kafka] ", log.LstdFlags)
