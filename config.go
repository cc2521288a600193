package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ttpr0/go-cityroutes/geo"
	"github.com/ttpr0/go-cityroutes/routing"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

//**********************************************************
// config
//**********************************************************

// Reads and validates the config file, unset keys keep their defaults.
func ReadConfig(file string) (Config, error) {
	slog.Info("Reading config file " + file)
	config := DefaultConfig()
	data, err := os.ReadFile(file)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	config.ApplyEnv()
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

type Config struct {
	LogLevel   string               `yaml:"log-level" validate:"oneof=debug info warn error"`
	Mode       ModeType             `yaml:"mode"`
	BuildGraph bool                 `yaml:"build-graph"`
	GraphDir   string               `yaml:"graph-dir" validate:"required"`
	Source     SourceOptions        `yaml:"source"`
	Projection geo.ProjectionParams `yaml:"projection"`
	Unify      UnifyOptions         `yaml:"unify"`
	Search     routing.SearchParams `yaml:"search"`
	Select     SelectOptions        `yaml:"select"`
	Output     OutputOptions        `yaml:"output"`
}

type SourceOptions struct {
	Stops     string `yaml:"stops" validate:"required"`
	StopTimes string `yaml:"stop-times" validate:"required"`
	Cities    string `yaml:"cities" validate:"required_without=OSM"`
	OSM       string `yaml:"osm"`
	// place tag values read from the osm file
	PlaceTypes []string `yaml:"place-types"`
}

type UnifyOptions struct {
	GridResolution float64 `yaml:"grid-resolution" validate:"gt=0"`
}

type SelectOptions struct {
	Radius     float64 `yaml:"radius" validate:"gt=0"`
	Workers    int     `yaml:"workers" validate:"min=1"`
	MaxQueries int     `yaml:"max-queries" validate:"min=0"`
}

type OutputOptions struct {
	SQLite  string `yaml:"sqlite" validate:"required"`
	GeoJSON string `yaml:"geojson"`
	Metrics string `yaml:"metrics"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Mode:     TRAIN,
		GraphDir: "./graphs/train",
		Source: SourceOptions{
			PlaceTypes: []string{"city"},
		},
		Unify: UnifyOptions{
			GridResolution: 10,
		},
		Search: routing.DefaultSearchParams(),
		Select: SelectOptions{
			Radius:  5,
			Workers: 4,
		},
		Output: OutputOptions{
			SQLite: "./data/routes.db",
		},
	}
}

// Overrides file values with CITYROUTES_* environment variables.
func (self *Config) ApplyEnv() {
	if value, ok := os.LookupEnv("CITYROUTES_LOG_LEVEL"); ok {
		self.LogLevel = value
	}
	if value, ok := os.LookupEnv("CITYROUTES_GRAPH_DIR"); ok {
		self.GraphDir = value
	}
	if value, ok := os.LookupEnv("CITYROUTES_SQLITE"); ok {
		self.Output.SQLite = value
	}
	if value, ok := os.LookupEnv("CITYROUTES_BUILD_GRAPH"); ok {
		self.BuildGraph = value == "1" || strings.EqualFold(value, "true")
	}
}

// Checks all parameters, the returned error names the first invalid key.
func (self Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.Struct(self); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			e := errs[0]
			key := e.Namespace()
			if i := strings.Index(key, "."); i >= 0 {
				key = key[i+1:]
			}
			return fmt.Errorf("%w: parameter %s=%v fails '%s'", ErrInvalidConfig, key, e.Value(), _FormatTag(e))
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !self.Projection.IsZero() {
		if err := self.Projection.Validate(); err != nil {
			return fmt.Errorf("%w: parameter projection: %w", ErrInvalidConfig, err)
		}
	}
	if err := self.Search.Validate(); err != nil {
		return fmt.Errorf("%w: parameter search: %w", ErrInvalidConfig, err)
	}
	return nil
}

func _FormatTag(e validator.FieldError) string {
	if e.Param() == "" {
		return e.Tag()
	}
	return e.Tag() + "=" + e.Param()
}

//**********************************************************
// enums
//**********************************************************

type ModeType byte

const (
	TRAIN ModeType = 0
	BUS   ModeType = 1
)

func (self ModeType) String() string {
	switch self {
	case TRAIN:
		return "train"
	case BUS:
		return "bus"
	default:
		panic("unknown mode type")
	}
}
func (self ModeType) MarshalYAML() (any, error) {
	return self.String(), nil
}
func (self *ModeType) UnmarshalYAML(value *yaml.Node) error {
	typ, err := ModeTypeFromString(value.Value)
	if err != nil {
		return err
	}
	*self = typ
	return nil
}
func (self ModeType) MarshalText() ([]byte, error) {
	return []byte(self.String()), nil
}
func (self *ModeType) UnmarshalText(data []byte) error {
	typ, err := ModeTypeFromString(string(data))
	if err != nil {
		return err
	}
	*self = typ
	return nil
}

func ModeTypeFromString(s string) (ModeType, error) {
	switch s {
	case "train":
		return TRAIN, nil
	case "bus":
		return BUS, nil
	default:
		return TRAIN, errors.New("unknown mode type " + s)
	}
}
