package messaging

import (
	"fmt"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefineTopic declares the durable topic exchange and the queue of the same
// name that consumers bind to.
func DefineTopic(ch *amqp.Channel, prefix string, topic ChangeTopic) error {
	name := TopicName(prefix, topic)
	if err := ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	); err != nil {
		return fmt.Errorf("declaring exchange %s: %w", name, err)
	}
	if _, err := ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("declaring queue %s: %w", name, err)
	}
	if err := ch.QueueBind(name, name, name, false, nil); err != nil {
		return fmt.Errorf("binding queue %s: %w", name, err)
	}
	return nil
}

func TopicName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

// Encode builds the message published for data.
func Encode[V any](data V) (amqp.Publishing, error) {
	bytes, err := sonic.Marshal(data)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType: "application/json",
		Body:        bytes,
	}, nil
}

// SendChange publishes every item as its own message on one channel.
func SendChange[V any](c *amqp.Connection, prefix string, topic ChangeTopic, data ...V) error {
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	name := TopicName(prefix, topic)
	for _, item := range data {
		msg, err := Encode(item)
		if err != nil {
			return err
		}
		if err = ch.Publish(
			name,
			name,
			false,
			false,
			msg,
		); err != nil {
			return err
		}
	}
	return nil
}
