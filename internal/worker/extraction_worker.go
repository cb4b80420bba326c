package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"clauseminer/internal/app"
	"clauseminer/internal/platform/rabbitmq"
)

// ExtractionWorker consumes queued extraction jobs and runs the pipeline for
// each. Pipeline failures mark the document failed inside ProcessDocument, so
// the delivery is acked either way; only undecodable payloads are dead-lettered.
type ExtractionWorker struct {
	conn      *amqp.Connection
	service   *app.ExtractionService
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewExtractionWorker(conn *amqp.Connection, service *app.ExtractionService, queueName string) *ExtractionWorker {
	return &ExtractionWorker{
		conn:      conn,
		service:   service,
		queueName: queueName,
	}
}

func (w *ExtractionWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var job rabbitmq.ExtractionJob
				if err := json.Unmarshal(d.Body, &job); err != nil {
					log.Printf("worker decode extraction job failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if _, err := w.service.ProcessDocument(workerCtx, job.DocumentID, job.Filename, job.FileData); err != nil {
					// The document already carries the failure; re-running
					// would fail the same way.
					log.Printf("worker process document %s failed: %v", job.DocumentID, err)
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *ExtractionWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
