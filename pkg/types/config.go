// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the configuration and records shared by the
// nexustools client, its history store, and the conversion backend.
package types

import (
	"fmt"
	"time"
)

// Environment selects which backend host the client talks to.
type Environment string

const (
	EnvProduction  Environment = "production"
	EnvDevelopment Environment = "development"
)

const (
	// ProductionBaseURL is the hosted conversion backend.
	ProductionBaseURL = "https://nexus-tools-3.onrender.com"

	// DevelopmentBaseURL is the backend started locally with "nexustools serve".
	DevelopmentBaseURL = "http://localhost:8000"
)

// ParseEnvironment maps a config value to an Environment. The empty string
// selects production, so an installed binary reaches the hosted backend.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(s) {
	case "", EnvProduction, "prod":
		return EnvProduction, nil
	case EnvDevelopment, "dev":
		return EnvDevelopment, nil
	}
	return "", fmt.Errorf("unknown environment %q (want production or development)", s)
}

// BaseURL returns the backend base URL for the environment.
func (e Environment) BaseURL() string {
	if e == EnvDevelopment {
		return DevelopmentBaseURL
	}
	return ProductionBaseURL
}

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no timeout, which is
	// the client's default: conversions of large files can take minutes.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClientConfig holds settings for submitting tool requests.
type ClientConfig struct {
	HTTPConfig `yaml:",inline"`

	// Environment selects the default base URL.
	Environment Environment `json:"environment" yaml:"environment"`

	// BaseURL overrides the environment's base URL when non-empty.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIToken is sent as a bearer token when non-empty.
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty"`

	// OutputDir is where downloaded results are written (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ResolvedBaseURL returns BaseURL if set, otherwise the environment default.
func (c ClientConfig) ResolvedBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return c.Environment.BaseURL()
}

// NotifyConfig holds settings for toast notifications.
type NotifyConfig struct {
	// Lifetime is how long a toast stays visible (default 4s).
	Lifetime time.Duration `json:"lifetime" yaml:"lifetime"`
}

// HistoryConfig holds settings for the run history store.
type HistoryConfig struct {
	// Dir is the directory that holds history.db and exports.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of rows returned (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ServerConfig holds settings for the conversion backend.
type ServerConfig struct {
	HTTPConfig `yaml:",inline"`

	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr"`

	// MaxUploadMB bounds the size of a request body (default 200).
	MaxUploadMB int64 `json:"max_upload_mb" yaml:"max_upload_mb"`

	// APIToken, when set, is required as a bearer token on /api/ routes.
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	Client  ClientConfig  `json:"client" yaml:"client"`
	Notify  NotifyConfig  `json:"notify" yaml:"notify"`
	History HistoryConfig `json:"history" yaml:"history"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}
