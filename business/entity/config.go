package entity

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/forest33/ittofeed/pkg/structs"
)

const (
	DefaultReplayConfigFileName   = "ittofeed-replay.yaml"
	DefaultConsumerConfigFileName = "ittofeed-consumer.yaml"
)

// ReplayConfig replay tool configuration
type ReplayConfig struct {
	InstanceID string          `yaml:"instanceId,omitempty" default:""`
	Input      string          `yaml:"input" default:""`
	Logger     *LoggerConfig   `yaml:"Logger"`
	Runtime    *RuntimeConfig  `yaml:"Runtime"`
	Network    *NetworkConfig  `yaml:"Network"`
	Pacing     *PacingConfig   `yaml:"Pacing"`
	Profiler   *ProfilerConfig `yaml:"Profiler"`
}

// ConsumerConfig consumer tool configuration
type ConsumerConfig struct {
	InstanceID  string          `yaml:"instanceId,omitempty" default:""`
	Input       string          `yaml:"input,omitempty" default:""`
	SanityCheck *bool           `yaml:"sanityCheck" default:"true"`
	Output      *OutputConfig   `yaml:"Output"`
	Logger      *LoggerConfig   `yaml:"Logger"`
	Runtime     *RuntimeConfig  `yaml:"Runtime"`
	Network     *NetworkConfig  `yaml:"Network"`
	Rest        *RestConfig     `yaml:"Rest"`
	Profiler    *ProfilerConfig `yaml:"Profiler"`
}

// LoggerConfig logger settings
type LoggerConfig struct {
	Level             string `yaml:"level" default:"info"`
	TimeFieldFormat   string `yaml:"timeFieldFormat" default:"2006-01-02T15:04:05.000000"`
	PrettyPrint       *bool  `yaml:"prettyPrint" default:"false"`
	DisableSampling   *bool  `yaml:"disableSampling" default:"true"`
	RedirectStdLogger *bool  `yaml:"redirectStdLogger" default:"true"`
	ErrorStack        *bool  `yaml:"errorStack" default:"true"`
	ShowCaller        *bool  `yaml:"showCaller" default:"false"`
	FileName          string `yaml:"fileName,omitempty" default:""`
}

// RuntimeConfig runtime settings
type RuntimeConfig struct {
	GoMaxProcs int `yaml:"goMaxProcs" default:"0"`
}

// NetworkConfig feed socket settings
type NetworkConfig struct {
	Host           string `yaml:"host" default:"127.0.0.1"`
	Port           int    `yaml:"port" default:"1977"`
	ReadBufferSize int    `yaml:"readBufferSize" default:"131071"`
}

// PacingConfig replay pacing settings
type PacingConfig struct {
	ChunkSize    int   `yaml:"chunkSize" default:"1400"`
	IntervalUsec int   `yaml:"intervalUsec" default:"100"`
	Burst        *bool `yaml:"burst" default:"false"`
}

// OutputConfig consumer rendering settings
type OutputConfig struct {
	Delimiter  string `yaml:"delimiter" default:","`
	PriceScale int    `yaml:"priceScale" default:"10000"`
	WithHeader *bool  `yaml:"withHeader" default:"true"`
}

// RestConfig statistics endpoint settings
type RestConfig struct {
	Enabled *bool  `yaml:"enabled" default:"false"`
	Host    string `yaml:"host" default:"127.0.0.1"`
	Port    int    `yaml:"port" default:"8070"`
}

// ProfilerConfig profiler settings
type ProfilerConfig struct {
	Enabled *bool  `yaml:"enabled" default:"false"`
	Host    string `yaml:"host" default:"localhost"`
	Port    int    `yaml:"port" default:"8060"`
}

func (c *ReplayConfig) Normalize() {
	c.InstanceID = structs.If(c.InstanceID == "", uuid.New().String(), c.InstanceID)
}

func (c *ReplayConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Input, validation.Required),
	); err != nil {
		return err
	}
	if err := c.Network.Validate(); err != nil {
		return err
	}
	return c.Pacing.Validate()
}

func (c *ConsumerConfig) Normalize() {
	c.InstanceID = structs.If(c.InstanceID == "", uuid.New().String(), c.InstanceID)
}

// Validate checks the consumer configuration. Input file and network source
// are mutually exclusive; with no input file the socket is used.
func (c *ConsumerConfig) Validate() error {
	if c.Input == "" {
		return c.Network.Validate()
	}
	return nil
}

func (c *NetworkConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required, is.Host),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ReadBufferSize, validation.Min(0)),
	)
}

func (c *PacingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ChunkSize, validation.Required, validation.Min(1), validation.Max(65507)),
		validation.Field(&c.IntervalUsec, validation.Min(0)),
	)
}
