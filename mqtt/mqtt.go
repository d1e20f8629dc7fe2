package mqtt

import (
	"crypto/tls"
	"fmt"
	log "log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/mrlauy/alexa-ablecloud/config"
)

const publishTimeout = 5 * time.Second

// Mqtt mirrors device state changes to a broker as retained messages.
type Mqtt struct {
	client mqtt.Client
}

func NewMqtt(cfg config.MqttConfig) (*Mqtt, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(cfg))
	opts.SetClientID(cfg.ClientId)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)

	if cfg.Tls {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to mqtt broker %s: %w", brokerURL(cfg), token.Error())
	}

	return &Mqtt{
		client: client,
	}, nil
}

func (m *Mqtt) SendMessage(topic string, message string) {
	log.Info("send mqtt message", "topic", topic, "message", message)
	token := m.client.Publish(topic, 1, true, message)
	if !token.WaitTimeout(publishTimeout) {
		log.Error("mqtt publish timed out", "topic", topic)
		return
	}
	if err := token.Error(); err != nil {
		log.Error("failed to publish mqtt message", "topic", topic, "error", err)
	}
}

func (m *Mqtt) Close() {
	m.client.Disconnect(250)
}

func brokerURL(cfg config.MqttConfig) string {
	scheme := "tcp"
	if cfg.Tls {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port)
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Debug("mqtt client connected")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn("mqtt client connection lost", "error", err)
}
