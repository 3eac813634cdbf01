// Copyright 2025 Reposcope Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scenario

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/reposcope/reposcope/llm"
)

// Config drives the local snapshot scenario. Zero values fall back to
// the defaults from Default.
type Config struct {
	Patterns       []string          `yaml:"patterns"`
	Exclude        []string          `yaml:"exclude"`
	Extensions     []string          `yaml:"extensions"`
	Language       string            `yaml:"language"`
	Rules          map[string]string `yaml:"rules"`
	SnapshotDir    string            `yaml:"snapshot_dir"`
	PromptTemplate string            `yaml:"prompt_template"`
	Model          llm.ModelConfig   `yaml:"model"`
}

// DefaultPrompt summarizes the pipeline results for the model.
const DefaultPrompt = `You are reviewing a code repository at {project_root}.

{file_count} files were collected, {parsed_file_count} parsed successfully,
and {violation_count} naming convention violations were found.

Violations:
{violations}

Summarize the state of the repository and suggest improvements.`

// Default returns the configuration used when no config file is given:
// collect Go and Python sources, skip vendored and hidden trees, check
// the common naming conventions.
func Default() Config {
	return Config{
		Patterns:   []string{"**/*"},
		Exclude:    []string{".git/**", "vendor/**", "node_modules/**"},
		Extensions: []string{".go", ".py"},
		Rules: map[string]string{
			"class":    "PascalCase",
			"constant": "UPPER_SNAKE_CASE",
		},
		PromptTemplate: DefaultPrompt,
	}
}

// Load reads a YAML config file over the defaults, so a partial file
// only overrides what it names.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}
