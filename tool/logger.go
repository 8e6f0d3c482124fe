package tool

import (
	"github.com/charmbracelet/log"
)

// DefaultLogger is the agent-wide logger; the upload and processing loops tag
// their messages ("[Upload]", "[Processing]") so interleaved batches stay readable.
var DefaultLogger = log.Default()

// InitLogger applies the agent's format before the -log level switch runs.
func InitLogger() {
	DefaultLogger.SetTimeFormat("2006-01-02 15:04:05")
	DefaultLogger.SetReportCaller(true)
}
