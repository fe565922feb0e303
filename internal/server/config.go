// Package server implements the HTTP interface of the movie knowledge-graph
// service.
//
// This file defines the YAML service configuration. Parsing is strict
// (unknown keys are rejected) and environment references like ${VAR} are
// expanded before decoding, so secrets stay out of the file itself.
package server

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/StephenLER/MAP/pkg/llm"
)

// Config is the top-level service configuration.
type Config struct {
	// HTTPAddr is the listen address, e.g. ":8080".
	HTTPAddr string `yaml:"http_addr"`

	// AuthToken protects the API endpoints via bearer auth. Empty disables
	// authentication.
	AuthToken string `yaml:"auth_token"`

	// GraphPath points at the graph artifact to load.
	GraphPath string `yaml:"graph_path"`

	// PlanLLM configures the model that turns questions into query plans.
	PlanLLM llm.Config `yaml:"plan_llm"`

	// AnswerLLM configures the model that writes the final answers.
	AnswerLLM llm.Config `yaml:"answer_llm"`

	// AgentMaxSteps caps the ReAct agent's tool-call iterations.
	// Zero uses the built-in default.
	AgentMaxSteps int `yaml:"agent_max_steps"`
}

// LoadConfig reads and parses the YAML configuration at path. An empty path
// yields a zero Config so every setting can come from flags instead.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read configuration file '%s': %w", path, err)
	}

	expandedData := os.ExpandEnv(string(data))

	var config Config
	decoder := yaml.NewDecoder(strings.NewReader(expandedData))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("YAML syntax error in '%s': %w", path, err)
	}

	return &config, nil
}
