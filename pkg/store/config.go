package store

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config provides the store location and backend connection settings.
type Config interface {
	BasePath() string
	ServerURL() string
	Token() string
}

// LoadConfig resolves configuration from a .coursedeck file or COURSEDECK_*
// environment variables.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.coursedeck.db")
	viper.SetConfigName(".coursedeck") // .yaml is implicit
	viper.SetEnvPrefix("COURSEDECK")
	viper.AutomaticEnv()

	if override := os.Getenv("COURSEDECK_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{
		Path:   path,
		Server: viper.GetString("server"),
		Auth:   viper.GetString("token"),
	}, nil
}

type fileConfig struct {
	Path   string `json:"path"`
	Server string `json:"server"`
	Auth   string `json:"token"`
}

func (f *fileConfig) BasePath() string  { return f.Path }
func (f *fileConfig) ServerURL() string { return f.Server }
func (f *fileConfig) Token() string     { return f.Auth }
