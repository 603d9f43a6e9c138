package spec

type sinkConfigs struct {
	Kafka  any `yaml:"kafka"`
	Stdout any `yaml:"stdout"`
}

type debugSection struct {
	PerFrameDelayMS int  `yaml:"per_frame_delay_ms"`
	PrintValue      bool `yaml:"print_value"`
	MaxWindows      int  `yaml:"max_windows"`
}

// StageSpec parameterizes the rhythm transform stage between source and
// sinks.
type StageSpec struct {
	FrameSize  int    `yaml:"frame_size"`
	HopSize    int    `yaml:"hop_size"`
	Descriptor string `yaml:"descriptor"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	Source struct {
		Kind   string `yaml:"kind"`
		Driver string `yaml:"driver"`
		Config string `yaml:"config"`
	} `yaml:"source"`

	Stage StageSpec `yaml:"stage"`

	Sinks       []string     `yaml:"sinks"`
	SinkConfigs sinkConfigs  `yaml:"sink_configs"`
	Debug       debugSection `yaml:"debug"`
}
