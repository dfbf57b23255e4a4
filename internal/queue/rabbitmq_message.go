package queue

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// Message pairs a decoded recurrence job with the AMQP delivery it arrived
// on, so the worker can ack or reject against the right channel.
type Message struct {
	Job         *Job
	DeliveryTag uint64
	Channel     *amqp.Channel
}

// Ack marks the job as handled.
func (m *Message) Ack() error {
	return m.Channel.Ack(m.DeliveryTag, false)
}

// Nack rejects the job. With requeue it goes back on the main queue for
// another attempt; without, the broker routes it to the dead-letter queue.
func (m *Message) Nack(requeue bool) error {
	return m.Channel.Nack(m.DeliveryTag, false, requeue)
}

// GetJob returns the wrapped job.
func (m *Message) GetJob() *Job {
	return m.Job
}
