package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadNotifier define o contrato de quem avisa o operador sobre leads
// novos (email hoje; o transporte é indiferente para o worker).
type LeadNotifier interface {
	NotifyLeadCaptured(payload LeadCapturedPayload) error
}

type Worker struct {
	Channel  *amqp.Channel
	Notifier LeadNotifier
}

func NewWorker(ch *amqp.Channel, notifier LeadNotifier) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadCapturedPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] Lead capturado: %s (%s)", payload.BusinessName, payload.Source)

			if w.Notifier == nil {
				d.Ack(false)
				continue
			}

			if err := w.Notifier.NotifyLeadCaptured(payload); err != nil {
				log.Printf("❌ [WORKER] Erro ao notificar: %s", err)
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] Operador avisado sobre %s", payload.BusinessName)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}
