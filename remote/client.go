package remote

import (
	"fmt"
	"time"

	"github.com/XR-lab/LookingGlass/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
	qos            = 1
)

// Client MQTT 客户端封装
type Client struct {
	client mqtt.Client
	topic  string
	log    logrus.FieldLogger
}

// DialFunc 建立 MQTT 连接
type DialFunc func(cfg config.RemoteSettings, log logrus.FieldLogger) (*Client, error)

// Dial 连接 Broker
func Dial(cfg config.RemoteSettings, log logrus.FieldLogger) (*Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(false)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetAutoReconnect(true)
	// 连接断开时的遗嘱：播放器离线
	opts.SetWill(StatusTopic(cfg.Topic), `{"playing":false,"mode":"offline","timestamp":0}`, qos, true)

	opts.OnConnect = func(c mqtt.Client) {
		log.WithField("broker", cfg.Broker).Info("✅ MQTT 已连接")
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		log.WithError(err).Warn("❌ MQTT 连接丢失")
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("MQTT 连接超时")
	}
	if token.Error() != nil {
		return nil, fmt.Errorf("MQTT 连接失败: %w", token.Error())
	}

	return NewClient(client, cfg.Topic, log), nil
}

// NewClient 包装已连接的 paho 客户端
func NewClient(client mqtt.Client, topic string, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{client: client, topic: topic, log: log}
}

// CommandTopic 命令主题
func CommandTopic(topic string) string { return topic + "/command" }

// StatusTopic 状态主题
func StatusTopic(topic string) string { return topic + "/status" }

// SubscribeCommands 订阅命令主题，handler 在 MQTT 回调线程执行
func (c *Client) SubscribeCommands(handler func(payload []byte)) error {
	topic := CommandTopic(c.topic)
	token := c.client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("订阅失败: %w", token.Error())
	}
	c.log.WithField("topic", topic).Info("📡 已订阅")
	return nil
}

// SubscribeStatus 订阅状态主题（遥控端使用）
func (c *Client) SubscribeStatus(handler func(payload []byte)) error {
	token := c.client.Subscribe(StatusTopic(c.topic), qos, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("订阅状态失败: %w", token.Error())
	}
	return nil
}

// PublishStatus 发布保留的状态消息
func (c *Client) PublishStatus(payload []byte) error {
	token := c.client.Publish(StatusTopic(c.topic), qos, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("发布状态超时")
	}
	if token.Error() != nil {
		return fmt.Errorf("发布状态失败: %w", token.Error())
	}
	return nil
}

// PublishCommand 发布命令（遥控端使用）
func (c *Client) PublishCommand(payload []byte) error {
	token := c.client.Publish(CommandTopic(c.topic), qos, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("发布命令失败: %w", token.Error())
	}
	return nil
}

// Close 关闭连接
func (c *Client) Close() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
	}
}

// Topic 获取主题前缀
func (c *Client) Topic() string {
	return c.topic
}
