package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/angas/essentwatch-go/config"
	"github.com/angas/essentwatch-go/types"
)

const publishTimeout = 10 * time.Second

// Publisher pushes normalized tariff schedules to an MQTT broker so
// home-automation setups can subscribe instead of polling the API
// themselves. Messages are retained: a late subscriber gets the latest
// schedule immediately.
type Publisher struct {
	client mqtt.Client
	logger *slog.Logger
	prefix string
}

func New(cnfg config.AppConfigMqtt) *Publisher {
	logger := slog.Default().With("module", "mqtt")

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cnfg.Host, cnfg.Port))
	opts.SetClientID("essentwatch")
	opts.SetUsername(cnfg.Username)
	opts.SetPassword(cnfg.Password)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	mqtt.CRITICAL = newPahoLogger(logger, slog.LevelError)
	mqtt.ERROR = newPahoLogger(logger, slog.LevelError)
	mqtt.WARN = newPahoLogger(logger, slog.LevelWarn)

	return &Publisher{
		client: mqtt.NewClient(opts),
		logger: logger,
		prefix: cnfg.GetTopicPrefix(),
	}
}

func (p *Publisher) Connect() error {
	p.logger.Debug("connecting MQTT client")
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *Publisher) Disconnect() {
	p.client.Disconnect(250)
}

// PublishPrices publishes one retained message per commodity.
func (p *Publisher) PublishPrices(prices types.Prices) error {
	for _, commodity := range types.Commodities() {
		cp := prices.ByCommodity(commodity)
		payload, err := json.Marshal(cp)
		if err != nil {
			return fmt.Errorf("marshaling %s prices: %w", commodity, err)
		}

		topic := fmt.Sprintf("%s/%s", p.prefix, commodity)
		token := p.client.Publish(topic, 0, true, payload)
		if !token.WaitTimeout(publishTimeout) {
			return fmt.Errorf("publishing to %s: timeout", topic)
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("publishing to %s: %w", topic, err)
		}

		p.logger.Debug("published prices",
			slog.String("topic", topic),
			slog.Int("noOfPoints", len(cp.Prices)))
	}

	return nil
}
