package core

import (
	"time"
)

const (
	// DefaultAPIURL is the SoundCloud public API base URL.
	DefaultAPIURL = "https://api.soundcloud.com"
	// DefaultTokenURL is the SoundCloud client-credentials token endpoint.
	DefaultTokenURL = "https://api.soundcloud.com/oauth2/token"
	// DefaultServerPort is the default HTTP port of the field host.
	DefaultServerPort = 8080
	// DefaultSessionTTLMins is how long an idle selection session is kept by the host.
	DefaultSessionTTLMins = 30
	// DefaultMaxSessions caps the number of concurrently open selection sessions.
	DefaultMaxSessions = 1000
	// DefaultLanguage is the language of user-facing session messages.
	DefaultLanguage = "en"
)

type Config struct {
	SoundCloud SoundCloudConfig
	Server     ServerConfig
	Store      StoreConfig
	Log        LogConfig
	App        AppConfig
}

type SoundCloudConfig struct {
	ClientID     string
	ClientSecret string
	UserID       string
	WebsiteURI   string
	APIURL       string
	TokenURL     string
}

// Credentials returns the credential triple handed to selection sessions.
func (c *SoundCloudConfig) Credentials() Credentials {
	return Credentials{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		UserID:       c.UserID,
	}
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StoreConfig struct {
	// Path of the SQLite database. Empty keeps documents in memory.
	Path string
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	Language       string
	SessionTTLMins int
	MaxSessions    int
	// ExposeRawResponse keeps the last raw resolve payload in session snapshots.
	ExposeRawResponse bool
}

func DefaultConfig() *Config {
	return &Config{
		SoundCloud: SoundCloudConfig{
			APIURL:   DefaultAPIURL,
			TokenURL: DefaultTokenURL,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         DefaultServerPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			Language:       DefaultLanguage,
			SessionTTLMins: DefaultSessionTTLMins,
			MaxSessions:    DefaultMaxSessions,
		},
	}
}
