package types

// Configuration types

type Config struct {
	Server  ServerConfig  `json:"server"`
	Logging LoggingConfig `json:"logging"`
	Storage StorageConfig `json:"storage"`
	History HistoryConfig `json:"history"`
}

type ServerConfig struct {
	Host  string `json:"host"`
	Port  int    `json:"port"`
	Token string `json:"token,omitempty"`
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

type StorageConfig struct {
	ConfigDir string `json:"config_dir"`
}

type HistoryConfig struct {
	StoragePath string `json:"storage_path,omitempty"`
	TTLDays     int    `json:"ttl_days,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// ClientConfig is what the CLI needs to reach a running server.
type ClientConfig struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token,omitempty"`
}
