package notify

import (
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/soocke/surface-sketch-go/config"
)

// ClientOptions builds paho options from cfg.
func ClientOptions(cfg config.MQTT, logger *slog.Logger) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		if logger != nil {
			logger.Info("mqtt connected", "broker", cfg.Broker)
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		if logger != nil {
			logger.Warn("mqtt connection lost", "error", err)
		}
	})
	return opts
}

// Connect starts an asynchronous connection to cfg.Broker. It returns a nil
// client when no broker is configured.
func Connect(cfg config.MQTT, logger *slog.Logger) mqtt.Client {
	if cfg.Broker == "" {
		if logger != nil {
			logger.Debug("mqtt disabled: no broker configured")
		}
		return nil
	}
	client := mqtt.NewClient(ClientOptions(cfg, logger))
	token := client.Connect()
	go func() {
		if token.Wait() && token.Error() != nil && logger != nil {
			logger.Error("mqtt connect", "broker", cfg.Broker, "error", token.Error())
		}
	}()
	return client
}
