package pipeline

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/debeat/essentia/dsp"
	"github.com/debeat/essentia/internal/config"
	"github.com/debeat/essentia/rhythm"
	"github.com/debeat/essentia/sink"
	ksink "github.com/debeat/essentia/sink/kafka"
	"github.com/debeat/essentia/sink/stdout"
	"github.com/debeat/essentia/source/kafka"
)

func Compile(path string) (*Runner, error) {
	r := NewRunner()
	if err := LoadYAML(path, r); err != nil {
		return nil, err
	}
	return r, nil
}

func LoadYAML(path string, r *Runner) error {
	cfg, confPath, err := config.LoadPipelineSpec(path)
	if err != nil {
		return err
	}

	/*──────── source (Kafka only for v0.1) ───────*/
	if cfg.Source.Kind != "kafka" {
		return fmt.Errorf("unsupported source %q", cfg.Source.Kind)
	}
	kc, err := config.LoadKafkaConfig(confPath)
	if err != nil {
		return err
	}

	src, err := kafka.NewAdapter(cfg.Source.Driver)
	if err != nil {
		return err
	}
	if err = src.Configure(kc); err != nil {
		return err
	}
	r.SetSource(src)

	/*──────── rhythm stage ───────*/
	stage, err := rhythm.NewStreaming(
		rhythm.Config{FrameSize: cfg.Stage.FrameSize, HopSize: cfg.Stage.HopSize},
		dsp.Hann{}, dsp.Spectrum{},
		cfg.Stage.Descriptor,
		r.sourceDrained, r.emit,
	)
	if err != nil {
		return err
	}
	r.SetStage(stage)

	/*──────── sinks ───────*/
	for _, name := range cfg.Sinks {
		sDrv, err := sink.NewAdapter(name)
		if err != nil {
			return err
		}

		switch name {
		case "stdout":
			err = sDrv.Configure(stdout.Config{
				DelayMS:    cfg.Debug.PerFrameDelayMS,
				PrintValue: cfg.Debug.PrintValue,
				MaxWindows: cfg.Debug.MaxWindows,
			})
		case "kafka":
			var kcfg ksink.Config
			if kcfg, err = reparse[ksink.Config](cfg.SinkConfigs.Kafka); err == nil {
				err = sDrv.Configure(kcfg)
			}
		default:
			err = fmt.Errorf("no config block for sink %q", name)
		}
		if err != nil {
			return err
		}
		r.AddSink(sDrv)
	}
	return nil
}

// reparse round-trips an untyped YAML subtree into a driver config struct.
func reparse[T any](raw any) (T, error) {
	var out T
	if raw == nil {
		return out, nil
	}
	buf, err := yaml.Marshal(raw)
	if err != nil {
		return out, err
	}
	err = yaml.Unmarshal(buf, &out)
	return out, err
}
