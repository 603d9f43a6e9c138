package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/IBM/sarama"

	"github.com/debeat/essentia/internal/logging"
)

// SaramaDriver consumes band-energy frames from Kafka through a consumer
// group. Each record's payload is a JSON array of per-band energies; a
// record whose payload equals the configured end-of-stream marker
// terminates the stream and makes Run return nil.
type SaramaDriver struct {
	cfg   Config
	cl    sarama.Client
	group sarama.ConsumerGroup
	bp    *Controller

	eosOnce sync.Once
	eos     chan struct{}
}

func (d *SaramaDriver) Configure(config Config) error {
	d.cfg = config
	d.eos = make(chan struct{})
	d.bp = NewController(config.BackPressure.Capacity, config.BackPressure.Capacity/10, config.BackPressure.CheckInt)

	ver, err := sarama.ParseKafkaVersion(config.Version)
	if err != nil {
		return err
	}
	sc := sarama.NewConfig()
	sc.Version = ver
	sc.Consumer.Return.Errors = true
	if config.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if config.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = config.SASLUser, config.SASLPass
	}
	switch config.StartFrom {
	case "oldest":
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	if d.cl, err = sarama.NewClient(config.Brokers, sc); err != nil {
		return err
	}
	d.group, err = sarama.NewConsumerGroupFromClient(config.GroupID, d.cl)
	return err
}

func (d *SaramaDriver) Run(ctx context.Context, emit EmitFunc) error {
	handler := &groupHandler{driver: d, emit: emit}

	// the end-of-stream marker cancels the session so Consume returns
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-d.eos:
			cancel()
		case <-runCtx.Done():
		}
	}()

	for {
		err := d.group.Consume(runCtx, d.cfg.Topics, handler)
		select {
		case <-d.eos:
			return nil
		default:
		}
		if err != nil {
			return err
		}
		if runCtx.Err() != nil {
			return runCtx.Err()
		}
	}
}

func (d *SaramaDriver) Close() error {
	if d.group != nil {
		_ = d.group.Close()
	}
	if d.cl != nil {
		_ = d.cl.Close()
	}
	if d.bp != nil {
		d.bp.Close()
	}
	return nil
}

func (d *SaramaDriver) signalEndOfStream() {
	d.eosOnce.Do(func() { close(d.eos) })
}

func (d *SaramaDriver) isEndOfStream(payload []byte) bool {
	return d.cfg.EOSMarker != "" && string(payload) == d.cfg.EOSMarker
}

// decodeFrame parses one JSON-encoded band-energy frame.
func decodeFrame(payload []byte) ([]float64, error) {
	var frame []float64
	if err := json.Unmarshal(payload, &frame); err != nil {
		return nil, fmt.Errorf("kafka: frame payload: %w", err)
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("kafka: empty frame payload")
	}
	return frame, nil
}

type groupHandler struct {
	driver *SaramaDriver
	emit   EmitFunc
}

func (*groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (*groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(
	sess sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	for {
		select {
		case <-sess.Context().Done():
			return sess.Context().Err()
		case <-h.driver.eos:
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if h.driver.isEndOfStream(msg.Value) {
				sess.MarkMessage(msg, "")
				logging.L().Info("kafka source: end-of-stream",
					"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
				h.driver.signalEndOfStream()
				return nil
			}

			if err := h.driver.bp.Acquire(sess.Context()); err != nil {
				return err
			}
			frame, err := decodeFrame(msg.Value)
			if err != nil {
				logging.L().Warn("kafka source: skipping bad frame",
					"topic", msg.Topic, "offset", msg.Offset, "error", err)
				sess.MarkMessage(msg, "")
				continue
			}
			if err := h.emit(frame); err != nil {
				return err
			}
			sess.MarkMessage(msg, "")
		}
	}
}
