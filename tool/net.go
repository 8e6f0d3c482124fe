package tool

import (
	"net/url"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// CheckReachable pings the host of the given base URL once (unprivileged UDP
// ping) and reports whether a reply came back. Used by the status endpoint so
// the UI can show the archive as online/offline; best effort only.
func CheckReachable(baseURL string, timeout time.Duration) bool {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return false
	}
	pinger, err := probing.NewPinger(u.Hostname())
	if err != nil {
		return false
	}
	pinger.SetPrivileged(false)
	pinger.Count = 1
	pinger.Timeout = timeout
	if err := pinger.Run(); err != nil {
		return false
	}
	return pinger.Statistics().PacketsRecv > 0
}
