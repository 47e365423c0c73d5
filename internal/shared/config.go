package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Pipeline    PipelineConfig    `toml:"pipeline"`
	Tools       ToolsConfig       `toml:"tools"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify  SpotifyConfig  `toml:"spotify"`
	YouTube  YouTubeConfig  `toml:"youtube"`
	OpenAI   OpenAIConfig   `toml:"openai"`
	Unsplash UnsplashConfig `toml:"unsplash"`
}

// SpotifyConfig contains Spotify API credentials for the headless refresh-token flow.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
	RedirectURI  string `toml:"redirect_uri"`
}

// YouTubeConfig contains YouTube Data API credentials and upload settings.
type YouTubeConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
	Privacy      string `toml:"privacy"`
}

// OpenAIConfig contains the API key for generative thumbnail images.
type OpenAIConfig struct {
	APIKey string `toml:"api_key"`
}

// UnsplashConfig contains the access key for stock photo search.
type UnsplashConfig struct {
	AccessKey string `toml:"access_key"`
}

// PipelineConfig contains pipeline behavior settings.
type PipelineConfig struct {
	WorkDir          string `toml:"work_dir"`
	OutputDir        string `toml:"output_dir"`
	TrackPolicy      string `toml:"track_policy"` // "skip" or "abort"
	FetchWorkers     int    `toml:"fetch_workers"`
	VideoWidth       int    `toml:"video_width"`
	VideoHeight      int    `toml:"video_height"`
	UploadChunkMB    int    `toml:"upload_chunk_mb"`
	UploadMaxResumes int    `toml:"upload_max_resumes"`
	KeepArtifacts    bool   `toml:"keep_artifacts"`
}

// ToolsConfig contains paths to external CLI collaborators.
type ToolsConfig struct {
	YTDLPPath   string `toml:"ytdlp_path"`
	FFmpegPath  string `toml:"ffmpeg_path"`
	CookiesFile string `toml:"cookies_file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
