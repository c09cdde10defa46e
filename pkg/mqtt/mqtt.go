package mqtt

import (
	"crypto/md5"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/mikesmitty/steady-eddy/pkg/cycle"
)

type Client struct {
	client      paho.Client
	clientID    string
	topicPrefix string
	qos         byte
	retained    bool
	sampleRate  int
	hassSensors map[string]HassSensor
	mu          sync.Mutex
}

func NewClient(broker *url.URL, sampleRate int) *Client {
	c := &Client{}

	var urls []*url.URL
	urls = append(urls, broker)

	hostname, _ := os.Hostname()
	hostname = strings.Split(hostname, ".")[0]
	clientID := hostname
	if clientID == "" {
		now := time.Now().UnixNano()
		sum := md5.New().Sum([]byte(strconv.FormatInt(now, 10)))
		clientID = string(sum)
	}

	c.qos = 1
	c.topicPrefix = "steady-eddy/" + hostname
	c.clientID = clientID
	c.hassSensors = make(map[string]HassSensor)

	slog.Info("connecting to mqtt", "url", broker, "clientid", clientID)
	c.client = paho.NewClient(&paho.ClientOptions{
		Servers:        urls,
		ClientID:       clientID,
		ConnectRetry:   true,
		ConnectTimeout: 30 * time.Second,
	})

	c.sampleRate = sampleRate

	return c
}

func (c *Client) Connect() error {
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		slog.Error("mqtt connection failed", "error", token.Error())
		return token.Error()
	}
	return nil
}

func (c *Client) Subscribe(topic string, handler paho.MessageHandler) error {
	if token := c.client.Subscribe(topic, c.qos, handler); token.Wait() && token.Error() != nil {
		slog.Error("mqtt subscription failed", "error", token.Error())
		return token.Error()
	}
	return nil
}

// GetPublisher forwards the engine's output stream to Home Assistant,
// decimated so a fast cycle rate doesn't flood the broker.
func (c *Client) GetPublisher(cycleChan <-chan cycle.Cycle) func() error {
	inputSensor := c.RegisterHassSensor(c.NewHassSensor("Input Sample", HassSensorGeneric))
	averageSensor := c.RegisterHassSensor(c.NewHassSensor("Window Average", HassSensorGeneric))
	cycleSensor := c.RegisterHassSensor(c.NewHassSensor("Cycle", HassSensorCounter))

	cycleSample := NewSample(c.sampleRate)

	return func() error {
		for cyc := range cycleChan {
			if !cycleSample.Ready() {
				continue
			}
			slog.Debug("mqtt publishing", "field", "cycle", "n", cyc.N, "input", cyc.Input, "average", cyc.Output)
			c.HassPublishSensor(inputSensor, strconv.FormatInt(cyc.Input, 10))
			c.HassPublishSensor(averageSensor, strconv.FormatInt(cyc.Output, 10))
			c.HassPublishSensor(cycleSensor, strconv.Itoa(cyc.N))
		}
		return nil
	}
}

func (p *Client) Publish(topic string, msg string) {
	t := p.client.Publish(topic, p.qos, p.retained, msg)
	go func() {
		_ = t.WaitTimeout(5 * time.Second)
		if t.Error() != nil {
			slog.Error("mqtt message publish failed", "error", t.Error())
		}
	}()
}
