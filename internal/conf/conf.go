package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap is the root of configs/config.yaml.
type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	TMDB   *TMDB   `json:"tmdb"`
}

type Server struct {
	Http *Server_HTTP `json:"http"`
	Grpc *Server_GRPC `json:"grpc"`
	Cors *Server_CORS `json:"cors"`
}

type Server_HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

type Server_GRPC struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

type Server_CORS struct {
	AllowedOrigins []string `json:"allowed_origins"`
}

type Data struct {
	Database *Data_Database `json:"database"`
	Mongo    *Data_Mongo    `json:"mongo"`
	Redis    *Data_Redis    `json:"redis"`
}

// Data_Database selects the review store. Driver is one of postgres, sqlite
// or mongodb; for mongodb the Mongo section is used instead of Source.
type Data_Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

type Data_Mongo struct {
	Uri      string `json:"uri"`
	Database string `json:"database"`
}

type Data_Redis struct {
	Addr         string   `json:"addr"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
}

type TMDB struct {
	BaseUrl  string   `json:"base_url"`
	ApiKey   string   `json:"api_key"`
	Language string   `json:"language"`
	Region   string   `json:"region"`
	Timeout  Duration `json:"timeout"`
}

// Duration decodes "10s" style strings.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	if s == "" {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

// AsDuration returns the wrapped time.Duration.
func (d Duration) AsDuration() time.Duration {
	return d.Duration
}
