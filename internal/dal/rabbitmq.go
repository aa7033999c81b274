package dal

import (
	"log"

	"merchant-yapp/internal/config"

	"github.com/streadway/amqp"
)

var RabbitConn *amqp.Connection
var RabbitCh *amqp.Channel

func InitRabbitMQ() {
	url := config.C.RabbitMQ.URL
	if url == "" {
		log.Printf("rabbitmq url empty, embedded-context fanout disabled")
		return
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Fatalf("rabbitmq dial failed: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbitmq channel failed: %v", err)
	}

	// exchange & queues
	if err := ch.ExchangeDeclare("payment_events", "topic", true, false, false, false, nil); err != nil {
		log.Fatalf("exchange declare failed: %v", err)
	}
	if _, err := ch.QueueDeclare("payment_complete", true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare payment_complete failed: %v", err)
	}
	if _, err := ch.QueueDeclare("payment_message", true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare payment_message failed: %v", err)
	}
	if err := ch.QueueBind("payment_complete", "payment.complete", "payment_events", false, nil); err != nil {
		log.Fatalf("queue bind payment_complete failed: %v", err)
	}
	if err := ch.QueueBind("payment_message", "payment.message", "payment_events", false, nil); err != nil {
		log.Fatalf("queue bind payment_message failed: %v", err)
	}

	RabbitConn = conn
	RabbitCh = ch
}
