package mqtt

import (
	"errors"
	"fmt"
	"time"

	"seedbreed/common/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const (
	connectTimeout = 5 * time.Second
	// 发布在请求路径上执行，broker 无响应时不能一直阻塞
	publishTimeout = 3 * time.Second
)

var (
	ErrPublishTimeout = errors.New("mqtt publish timed out")
	ErrNotConnected   = errors.New("mqtt client not connected")
)

// Client 只用于发布的 MQTT 客户端
type Client struct {
	client mqtt.Client
	qos    byte
	logger *zap.Logger
}

// NewClient 连接 broker，断线后自动重连
func NewClient(cfg *config.MQTTConfig, logger *zap.Logger) (*Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warn("MQTT connection lost", zap.String("broker", cfg.Broker), zap.Error(err))
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	return &Client{client: client, qos: cfg.QoS, logger: logger}, nil
}

// Publish QoS 取配置值；断线重连期间直接返回 ErrNotConnected
func (c *Client) Publish(topic string, retained bool, payload []byte) error {
	if !c.client.IsConnected() {
		return fmt.Errorf("topic %s: %w", topic, ErrNotConnected)
	}
	token := c.client.Publish(topic, c.qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("topic %s: %w", topic, ErrPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}
	return nil
}

// Disconnect 最多等待 250ms 发送完未完成的消息
func (c *Client) Disconnect() {
	c.client.Disconnect(250)
}
