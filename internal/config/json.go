package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON field names and
// string-friendly duration parsing for file-based configuration.
type StructuredJSONConfig struct {
	App struct {
		AuthToken string `json:"auth_token"`
		Version   string `json:"version"`
	} `json:"app,omitempty"`

	Server struct {
		HTTPAddress         string   `json:"address"`
		RequestTimeout      Duration `json:"request_timeout"`
		DeliveryBufferDepth int      `json:"delivery_buffer_depth"`
		WriterQueueDepth    int      `json:"writer_queue_depth"`
	} `json:"server,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Backends struct {
		Default string `json:"default"`
		Gemini  struct {
			APIKey string `json:"api_key"`
			Model  string `json:"model"`
		} `json:"gemini,omitempty"`
		OpenAI struct {
			BaseURL string `json:"base_url"`
			APIKey  string `json:"api_key"`
			Model   string `json:"model"`
		} `json:"openai,omitempty"`
	} `json:"backends,omitempty"`

	Client struct {
		ServerAddress  string   `json:"server_address"`
		DBPath         string   `json:"db_path"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"client,omitempty"`

	Workers struct {
		EvictInterval Duration `json:"evict_interval"`
		SessionTTL    Duration `json:"session_ttl"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			AuthToken: jsonCfg.App.AuthToken,
			Version:   jsonCfg.App.Version,
		},
		Server: Server{
			HTTPAddress:         jsonCfg.Server.HTTPAddress,
			RequestTimeout:      time.Duration(jsonCfg.Server.RequestTimeout),
			DeliveryBufferDepth: jsonCfg.Server.DeliveryBufferDepth,
			WriterQueueDepth:    jsonCfg.Server.WriterQueueDepth,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Backends: Backends{
			Default: jsonCfg.Backends.Default,
			Gemini: Gemini{
				APIKey: jsonCfg.Backends.Gemini.APIKey,
				Model:  jsonCfg.Backends.Gemini.Model,
			},
			OpenAI: OpenAI{
				BaseURL: jsonCfg.Backends.OpenAI.BaseURL,
				APIKey:  jsonCfg.Backends.OpenAI.APIKey,
				Model:   jsonCfg.Backends.OpenAI.Model,
			},
		},
		Client: Client{
			ServerAddress:  jsonCfg.Client.ServerAddress,
			DBPath:         jsonCfg.Client.DBPath,
			RequestTimeout: time.Duration(jsonCfg.Client.RequestTimeout),
		},
		Workers: Workers{
			EvictInterval: time.Duration(jsonCfg.Workers.EvictInterval),
			SessionTTL:    time.Duration(jsonCfg.Workers.SessionTTL),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
