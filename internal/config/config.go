package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		// ActionBaseURL is the externally reachable base URL embedded in
		// action hrefs (blink clients call it, not us).
		ActionBaseURL string `yaml:"action_base_url"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	ImageService struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"image_service"`
	Solana struct {
		RPCURL           string `yaml:"rpc_url"`
		PaymentAddress   string `yaml:"payment_address"`
		DefaultPrice     string `yaml:"default_price"`
		MemoTag          string `yaml:"memo_tag"`
		ComputeUnitPrice uint64 `yaml:"compute_unit_price"`
	} `yaml:"solana"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
