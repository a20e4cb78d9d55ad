package models

import (
	"path"

	"github.com/kardianos/osext"
)

const (
	// BackendSQLite stores the data inside a SQLite database file
	BackendSQLite = "sqlite"
	// BackendBolt stores the data inside a BoltDB file
	BackendBolt = "bolt"
	// BackendMemory keeps the data in memory only - everything is lost on shutdown
	BackendMemory = "memory"
)

// AppConfig is the application's main configuration structure
type AppConfig struct {
	// The directory where HackPulse stores all of its data - defaults to the /data subdirectory of the folder, the
	// HackPulse executable resides in
	DataDir string `json:"dataDir"`
	// The credentials for the admin account
	DefaultUser *DefaultUserConfig `json:"defaultUser"`
	// The IP address to listen at - including the port number
	ListenAddress string `json:"listenAddress"`
	// The logrus log level (debug, info, warn, error)
	LogLevel string `json:"logLevel"`
	// Where and how the listings and the session marker are stored
	Storage StorageConfig `json:"storage"`
	// Artificial delay added to every API operation in milliseconds (0 disables it)
	SimulatedLatencyMs uint `json:"simulatedLatencyMs"`
	// The catalog of tags offered when editing a hackathon
	Tags []string `json:"tags"`
}

// The DefaultUserConfig struct configures the admin user that can log in
type DefaultUserConfig struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// StorageConfig configures the key-value backend
type StorageConfig struct {
	// One of the Backend* constants
	Backend string `json:"backend"`
	// The file name inside the data directory - defaults depend on the backend
	File string `json:"file,omitempty"`
	// The key the serialized hackathon collection is stored under
	DataKey string `json:"dataKey"`
	// The key the session marker is stored under
	AuthKey string `json:"authKey"`
}

// FileName returns the configured storage file name or the default for the backend
func (c StorageConfig) FileName() string {
	if c.File != "" {
		return c.File
	}
	if c.Backend == BackendBolt {
		return "hackpulse.bolt"
	}
	return "hackpulse.db"
}

// GetDefaultConfig returns the default configuration values for the application
func GetDefaultConfig() (*AppConfig, error) {
	execDir, err := osext.ExecutableFolder()
	if err != nil {
		return nil, err
	}
	return &AppConfig{
		DataDir: path.Join(execDir, "data"),
		DefaultUser: &DefaultUserConfig{
			Name:     "admin",
			Password: "password123",
		},
		ListenAddress: ":3000",
		LogLevel:      "info",
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DataKey: "hackpulse_data",
			AuthKey: "hackpulse_auth_token",
		},
		Tags: append([]string{}, DefaultTags...),
	}, nil
}
