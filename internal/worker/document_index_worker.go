package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"agenthub/internal/pkg/pdfextract"
	"agenthub/internal/platform/rabbitmq"
	"agenthub/internal/storage"
	"agenthub/internal/vector"
)

// DocumentIndexWorker consumes upload events, loads the stored bytes,
// extracts text and feeds the vector store.
type DocumentIndexWorker struct {
	conn         *amqp.Connection
	contentStore storage.ContentStore
	vectorStore  vector.Store
	queueName    string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDocumentIndexWorker(conn *amqp.Connection, contentStore storage.ContentStore, vectorStore vector.Store, queueName string) *DocumentIndexWorker {
	return &DocumentIndexWorker{
		conn:         conn,
		contentStore: contentStore,
		vectorStore:  vectorStore,
		queueName:    queueName,
	}
}

func (w *DocumentIndexWorker) Start(ctx context.Context) error {
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

				var job rabbitmq.IndexJob
				if err := json.Unmarshal(d.Body, &job); err != nil {
					log.Printf("worker decode index job failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.index(workerCtx, job); err != nil {
					log.Printf("worker index document failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *DocumentIndexWorker) index(ctx context.Context, job rabbitmq.IndexJob) error {
	reader, err := w.contentStore.Get(ctx, job.StorageKey)
	if err != nil {
		return fmt.Errorf("load stored file failed: %w", err)
	}
	defer reader.Close()

	// Only PDF text extraction is supported; other allowed types are indexed
	// by filename alone until an extractor exists for them.
	var text string
	if job.ContentType == "application/pdf" {
		text, err = pdfextract.ExtractText(reader)
		if err != nil {
			return fmt.Errorf("extract pdf text failed: %w", err)
		}
		text = strings.TrimSpace(text)
	}

	w.vectorStore.AddDocument(vector.Document{
		AgentID:  job.AgentID,
		FileID:   job.FileID,
		Filename: job.Filename,
		Text:     text,
	})
	return nil
}

func (w *DocumentIndexWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
