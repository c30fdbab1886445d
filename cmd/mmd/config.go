package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Rodlemus03/mastermind/mastermind"
	"github.com/Rodlemus03/mastermind/solver"
)

// Config is the optional YAML configuration file. Every field falls back
// to the reference configuration when omitted.
type Config struct {
	Colors   []string       `yaml:"colors" validate:"omitempty,min=2,max=16,unique"`
	Opening  []string       `yaml:"opening" validate:"omitempty,len=4"`
	Selector SelectorConfig `yaml:"selector"`
}

type SelectorConfig struct {
	ConfirmLimit   int `yaml:"confirm_limit" validate:"omitempty,min=1"`
	RandomLimit    int `yaml:"random_limit" validate:"omitempty,min=1"`
	DiversifyLimit int `yaml:"diversify_limit" validate:"omitempty,min=1"`
	ProbeSamples   int `yaml:"probe_samples" validate:"omitempty,min=1"`
	SecretSamples  int `yaml:"secret_samples" validate:"omitempty,min=1"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) alphabet() (mastermind.Alphabet, error) {
	alphabet := mastermind.Colors
	if len(c.Colors) > 0 {
		alphabet = make(mastermind.Alphabet, len(c.Colors))
		for i, name := range c.Colors {
			alphabet[i] = strings.ToLower(strings.TrimSpace(name))
		}
	}
	if err := alphabet.Validate(); err != nil {
		return nil, err
	}
	return alphabet, nil
}

func (c Config) params(alphabet mastermind.Alphabet) (solver.Params, error) {
	p := solver.DefaultParams()
	if len(c.Opening) > 0 {
		opening, err := alphabet.Parse(strings.Join(c.Opening, ","))
		if err != nil {
			return p, fmt.Errorf("config opening: %w", err)
		}
		p.Opening = opening
	}
	if c.Selector.ConfirmLimit > 0 {
		p.ConfirmLimit = c.Selector.ConfirmLimit
	}
	if c.Selector.RandomLimit > 0 {
		p.RandomLimit = c.Selector.RandomLimit
	}
	if c.Selector.DiversifyLimit > 0 {
		p.DiversifyLimit = c.Selector.DiversifyLimit
	}
	if c.Selector.ProbeSamples > 0 {
		p.ProbeSamples = c.Selector.ProbeSamples
	}
	if c.Selector.SecretSamples > 0 {
		p.SecretSamples = c.Selector.SecretSamples
	}
	if err := p.Validate(alphabet); err != nil {
		return p, err
	}
	return p, nil
}
