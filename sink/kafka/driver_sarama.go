package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/debeat/essentia/sink"
)

type Config struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Acks    int16    `yaml:"required_acks"` // 0,1,-1
}

type driver struct {
	cfg Config
	p   sarama.AsyncProducer
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config")
	}
	d.cfg = cfg

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	var err error
	d.p, err = sarama.NewAsyncProducer(cfg.Brokers, sc)
	return err
}

func (d *driver) Push(r *sink.Result) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("kafka-sink: encode result: %w", err)
	}
	d.p.Input() <- &sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Key:   sarama.StringEncoder(r.Descriptor),
		Value: sarama.ByteEncoder(body),
	}
	return nil
}

func (d *driver) Close() error {
	if d.p == nil {
		return nil
	}
	return d.p.Close()
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
