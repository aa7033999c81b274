package mq

import (
	"encoding/json"
	"log"

	"merchant-yapp/internal/dal"
	"merchant-yapp/internal/dto"
)

// StartConsumers drains the payment_message queue: raw completion messages
// relayed by embedding contexts that cannot hold a websocket open. Each
// message goes through the same normalization path as every other signal.
func StartConsumers(handle func(dto.PaymentMessage)) {
	if dal.RabbitCh == nil {
		return
	}
	msgs, err := dal.RabbitCh.Consume("payment_message", "", false, false, false, false, nil)
	if err != nil {
		log.Printf("consume payment_message failed: %v", err)
		return
	}
	for d := range msgs {
		var m dto.PaymentMessage
		if err := json.Unmarshal(d.Body, &m); err != nil {
			log.Printf("bad payment_message payload: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		handle(m)
		_ = d.Ack(false)
	}
}
