package mq

import (
	"encoding/json"
	"log"

	"merchant-yapp/internal/dal"
	"merchant-yapp/internal/dto"

	"github.com/streadway/amqp"
)

// Publisher is the embedding-context leg of the broadcast: canonical events
// published here reach contexts (parent frames, sibling tabs, back-office
// consumers) that are not connected to the in-process bus or the websocket
// bridge.
type Publisher struct{}

func NewPublisher() *Publisher { return &Publisher{} }

func (p *Publisher) Broadcast(evt dto.PaymentEvent) {
	if err := PublishPaymentComplete(evt); err != nil {
		log.Printf("publish payment.complete failed: %v", err)
	}
}

func PublishPaymentComplete(evt dto.PaymentEvent) error {
	if dal.RabbitCh == nil {
		return nil
	}
	b, _ := json.Marshal(evt)
	return dal.RabbitCh.Publish(
		"payment_events",
		"payment.complete",
		false, false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         b,
		},
	)
}
