package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configCandidates is the order pyrev._find_and_parse_config_file tries
// the book configuration file in.
var configCandidates = []string{"config.yml", "config.yaml", "sample.yml", "sample.yaml"}

type bookConfig struct {
	Bookname    string `yaml:"bookname"`
	BookTitle   string `yaml:"booktitle"`
	Aut         string `yaml:"aut"`
	Description string `yaml:"description"`
	CoverImage  string `yaml:"coverimage"`
}

// findAndParseConfig tries each configCandidates filename in order and
// returns the first one present that parses as a mapping containing a
// "bookname" key.
func findAndParseConfig(sourceDir string) (bookConfig, string, error) {
	for _, name := range configCandidates {
		path := filepath.Join(sourceDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return bookConfig{}, "", fmt.Errorf("project: reading %q: %w", path, err)
		}
		var raw map[string]interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return bookConfig{}, "", fmt.Errorf("project: parsing %q: %w", path, err)
		}
		if _, ok := raw["bookname"]; !ok {
			continue
		}
		var cfg bookConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return bookConfig{}, "", fmt.Errorf("project: parsing %q: %w", path, err)
		}
		return cfg, name, nil
	}
	return bookConfig{}, "", fmt.Errorf("project: no book configuration found in %q (tried %v)", sourceDir, configCandidates)
}
