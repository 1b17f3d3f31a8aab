package config

import (
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/schctl/nerdwm/internal/core"
)

func NewYAML(filePath string) YAML {
	return YAML{
		filePath: filePath,
	}
}

type YAML struct {
	filePath string
}

// Exists implements Driver.
func (y YAML) Exists() (bool, error) {
	return core.FileExists(y.filePath)
}

func (y YAML) Read() (Config, error) {
	file, err := os.Open(y.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig, nil
		}
		return Config{}, err
	}
	defer file.Close()

	var cfg Config
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return defaultConfig, nil
		}
		return Config{}, err
	}
	return cfg, nil
}

func (y YAML) Write(cfg Config) error {
	filePathTmp := y.filePath + ".tmp"
	file, err := os.OpenFile(filePathTmp, os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}

	if err := yaml.NewEncoder(file).Encode(cfg); err != nil {
		file.Close()
		return err
	}
	file.Close()

	return os.Rename(filePathTmp, y.filePath)
}
