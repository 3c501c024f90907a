package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile is the YAML file the tool reads its session from.
//
//	base_url: http://localhost:8080
//	user_token: eyJ...
//	buyer_token: eyJ...
//	timeout: 10s
//	notify_topic_arn: arn:aws:sns:...
type Profile struct {
	BaseURL        string        `yaml:"base_url"`
	UserToken      string        `yaml:"user_token"`
	BuyerToken     string        `yaml:"buyer_token"`
	Timeout        time.Duration `yaml:"timeout"`
	NotifyTopicARN string        `yaml:"notify_topic_arn"`
}

// LoadProfile reads path when it is non-empty, then applies WISHLIST_*
// environment overrides and defaults.
func LoadProfile(path string) (*Profile, error) {
	p := &Profile{}
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read profile: %w", err)
		}
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("parse profile %s: %w", path, err)
		}
	}

	if v := os.Getenv("WISHLIST_BASE_URL"); v != "" {
		p.BaseURL = v
	}
	if v := os.Getenv("WISHLIST_USER_TOKEN"); v != "" {
		p.UserToken = v
	}
	if v := os.Getenv("WISHLIST_BUYER_TOKEN"); v != "" {
		p.BuyerToken = v
	}
	if v := os.Getenv("WISHLIST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("WISHLIST_TIMEOUT: %w", err)
		}
		p.Timeout = d
	}
	if v := os.Getenv("WISHLIST_NOTIFY_TOPIC_ARN"); v != "" {
		p.NotifyTopicARN = v
	}

	if p.BaseURL == "" {
		p.BaseURL = "http://localhost:8080"
	}
	if p.Timeout <= 0 {
		p.Timeout = 10 * time.Second
	}
	return p, nil
}
