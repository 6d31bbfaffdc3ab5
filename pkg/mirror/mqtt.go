package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/germanamz/terrarium/pkg/config"
	"github.com/germanamz/terrarium/pkg/events"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// Publisher is the part of mqtt.Client the sink uses.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload any) mqtt.Token
}

// Connect dials the broker described by cfg.
func Connect(cfg config.MQTTConfig, log *zap.SugaredLogger) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warnw("mqtt_connection_lost", "err", err)
	})
	opts.SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
		log.Infow("mqtt_reconnecting", "broker", cfg.Broker)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mirror: connect to mqtt broker: %w", token.Error())
	}

	log.Infow("mqtt_connected", "broker", cfg.Broker)
	return client, nil
}

// Sink publishes polled state changes to <prefix>/<kind> as retained JSON.
type Sink struct {
	pub    Publisher
	prefix string
	log    *zap.SugaredLogger
}

// NewSink creates a sink publishing under prefix.
func NewSink(pub Publisher, prefix string, log *zap.SugaredLogger) *Sink {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Sink{pub: pub, prefix: strings.TrimRight(prefix, "/"), log: log}
}

// Topic returns the topic for kind.
func (s *Sink) Topic(kind events.Kind) string {
	return s.prefix + "/" + string(kind)
}

// Run forwards events from sub until ctx is done or sub is closed.
func (s *Sink) Run(ctx context.Context, sub *events.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub.C:
			if !ok {
				return
			}
			if err := s.Publish(e); err != nil {
				s.log.Warnw("mqtt_publish_failed", "kind", e.Kind, "err", err)
			}
		}
	}
}

// Publish sends one event. Kinds outside sensors, relays, status and error
// are ignored.
func (s *Sink) Publish(e events.Event) error {
	switch e.Kind {
	case events.KindSensors, events.KindRelays, events.KindStatus, events.KindError:
	default:
		return nil
	}

	payload, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("mirror: encode %s: %w", e.Kind, err)
	}

	token := s.pub.Publish(s.Topic(e.Kind), 0, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mirror: publish %s: timed out", e.Kind)
	}
	return token.Error()
}
