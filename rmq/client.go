// Package rmq is the AMQP transport for the tagging worker: it
// consumes tokenized sentences (one per message) from a request queue
// and publishes tagged results to a response queue. Adapted from
// rmq/client.go; the declare/bind/QoS/consume sequence is unchanged,
// only the queue names and config env-var prefix are domain-specific.
package rmq

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/anglisano/nametag/logger"
)

// Config carries the AMQP connection and queue settings.
type Config struct {
	Host                    string `envconfig:"NER_RMQ_HOST" required:"true"`
	Port                    string `envconfig:"NER_RMQ_PORT" required:"true"`
	Username                string `envconfig:"NER_RMQ_USERNAME" required:"true"`
	Password                string `envconfig:"NER_RMQ_PASSWORD" required:"true"`
	Exchange                string `envconfig:"NER_RMQ_DEFAULT_EXCHANGE" default:"nametag-default-exchange"`
	MaxParallelRequestCount int    `envconfig:"NER_RMQ_MAX_PARALLEL_REQUESTS" default:"5"`
	TaggingTaskQueue        string `envconfig:"NER_RMQ_TAGGING_TASK_QUEUE" required:"true"`
	TaggedResultQueue       string `envconfig:"NER_RMQ_TAGGED_RESULT_QUEUE" required:"true"`
}

// Client holds the request (consume) and response (publish) AMQP
// connections, kept separate so a slow publisher never blocks
// consumption.
type Client struct {
	Deliveries     <-chan amqp.Delivery
	ReqChanErrors  <-chan *amqp.Error
	RespChanErrors <-chan *amqp.Error
	config         Config
	reqConn        *amqp.Connection
	respConn       *amqp.Connection
	respChannel    *amqp.Channel
	log            *zerolog.Logger
}

// NewClient reads Config from the environment, connects, declares and
// binds the tagging task queue, and starts consuming from it.
func NewClient() (*Client, error) {
	rmqLogger := logger.New("rmq.Client")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		rmqLogger.Error().Err(err).Msg("could not read rmq env config")
		return nil, err
	}

	url := getURL(config)
	respConn, respChannel, err := setup(url)
	if err != nil {
		return nil, fmt.Errorf("rmq: failed response connection: %w", err)
	}
	reqConn, reqChannel, err := setup(url)
	if err != nil {
		return nil, fmt.Errorf("rmq: failed request connection: %w", err)
	}

	q, err := reqChannel.QueueDeclarePassive(
		config.TaggingTaskQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}
	if err := reqChannel.QueueBind(
		config.TaggingTaskQueue,
		config.TaggingTaskQueue,
		config.Exchange,
		false,
		nil); err != nil {
		return nil, err
	}
	if err := reqChannel.Qos(config.MaxParallelRequestCount, 0, false); err != nil {
		return nil, fmt.Errorf("rmq: qos: %w", err)
	}

	deliveries, err := reqChannel.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rmq: consume deliveries: %w", err)
	}
	reqChanErrors := reqChannel.NotifyClose(make(chan *amqp.Error))
	respChanErrors := respChannel.NotifyClose(make(chan *amqp.Error))

	return &Client{
		Deliveries:     deliveries,
		ReqChanErrors:  reqChanErrors,
		RespChanErrors: respChanErrors,
		config:         config,
		reqConn:        reqConn,
		respConn:       respConn,
		respChannel:    respChannel,
		log:            &rmqLogger,
	}, nil
}

// PublishTaggedResult sends msg to the tagged-result queue.
func (c *Client) PublishTaggedResult(msg amqp.Publishing) error {
	return c.respChannel.Publish(c.config.Exchange, c.config.TaggedResultQueue, false, false, msg)
}

// Close closes both AMQP connections.
func (c *Client) Close() {
	_ = c.reqConn.Close()
	_ = c.respConn.Close()
}

func getURL(config Config) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", config.Username, config.Password, config.Host, config.Port)
}

func setup(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	return conn, ch, nil
}
