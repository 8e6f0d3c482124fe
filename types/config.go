package types

// AppConfig represents the agent configuration loaded from config file
type AppConfig struct {
	APIBaseURL   string `yaml:"apiBaseUrl"`
	APIToken     string `yaml:"apiToken,omitempty"`
	UserID       string `yaml:"userId"`
	Port         int    `yaml:"port"`
	StateDir     string `yaml:"stateDir"`
	Abstract     string `yaml:"abstract,omitempty"` // default abstract attached to uploaded documents
	ParentID     int    `yaml:"parentId,omitempty"` // default parent container for uploads
	EventID      int    `yaml:"eventId,omitempty"`  // default event for uploads, mutually exclusive with parentId
	PollInterval int    `yaml:"pollIntervalSeconds"`
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log            string
	UseConfigPath  string
	UseAPIBaseURL  string
	UseAPIToken    string
	UseUserID      string
	UsePort        int
	UseStateDir    string
	UseParentID    int
	UseEventID     int
	UsePollSeconds int
}
