package tool

import (
	"flag"

	"github.com/mediavault/mediavault-go/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&cfg.UseAPIBaseURL, "useApiBaseUrl", "", "override archive API base URL")
	flag.StringVar(&cfg.UseAPIToken, "useApiToken", "", "override archive API token")
	flag.StringVar(&cfg.UseUserID, "useUserId", "", "override user identity (scopes persisted processing state)")
	flag.IntVar(&cfg.UsePort, "usePort", 0, "override local agent API port")
	flag.StringVar(&cfg.UseStateDir, "useStateDir", "", "override state directory")
	flag.IntVar(&cfg.UseParentID, "useParentId", 0, "default parent container for uploads")
	flag.IntVar(&cfg.UseEventID, "useEventId", 0, "default event for uploads")
	flag.IntVar(&cfg.UsePollSeconds, "usePollSeconds", 0, "override processing poll interval in seconds")
	flag.Parse()
	return cfg
}
