package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
)

// weightsFile YAML layout:
//
//	categories:
//	  - name: school
//	    weight: 0.8
type weightsFile struct {
	Categories []model.CategoryWeight `yaml:"categories"`
}

// WeightsFileFromEnv the WEIGHTS_FILE setting
func WeightsFileFromEnv() string {
	return getEnv("WEIGHTS_FILE", "")
}

// LoadWeights reads a weight table from a YAML file.
// An empty path returns the built-in table.
func LoadWeights(path string) (*model.CategoryWeightTable, error) {
	if path == "" {
		return model.DefaultWeightTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file %s: %w", path, err)
	}
	return ParseWeights(data)
}

// ParseWeights decodes a YAML weight table
func ParseWeights(data []byte) (*model.CategoryWeightTable, error) {
	var f weightsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse weights: %w", err)
	}

	table, err := model.NewCategoryWeightTable(f.Categories)
	if err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}
	return table, nil
}
