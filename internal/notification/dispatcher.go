package notification

import (
	"context"
	"log/slog"
	"sync"
)

type Worker struct {
	ID         int
	WorkerPool chan chan Message
	JobChannel chan Message
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Message, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Message),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Message)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case msg := <-w.JobChannel:
				w.Logger.Debug("worker delivering notification", "worker_id", w.ID, "client_id", msg.ClientID)
				processFunc(msg)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Dispatcher fans notifications out to a fixed pool of delivery workers. A
// full queue drops the message with a warning; delivery is best effort and
// must never block a payment transition.
type Dispatcher struct {
	sender Sender
	logger *slog.Logger

	jobQueue   chan Message
	workerPool chan chan Message
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type Config struct {
	MaxWorkers   int
	JobQueueSize int
}

func NewDispatcher(config Config, sender Sender, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	d := &Dispatcher{
		sender: sender,
		logger: logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan Message, jobQueueSize),
		workerPool: make(chan chan Message, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	d.startWorkerPool()

	return d
}

func (d *Dispatcher) startWorkerPool() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.deliver)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("notification worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case msg := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- msg:
				case <-d.ctx.Done():
					d.logger.Info("dispatcher shutting down")
					return
				}
			case <-d.ctx.Done():
				d.logger.Info("dispatcher shutting down")
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("dispatcher shutting down")
			return
		}
	}
}

// Notify queues a message for asynchronous delivery.
func (d *Dispatcher) Notify(clientID int64, subject, body string) {
	msg := Message{ClientID: clientID, Subject: subject, Body: body}

	select {
	case d.jobQueue <- msg:
	default:
		d.logger.Warn("notification queue full, dropping message",
			"client_id", clientID,
			"subject", subject,
			"queue_capacity", cap(d.jobQueue))
	}
}

func (d *Dispatcher) deliver(msg Message) {
	if err := d.sender.Send(msg); err != nil {
		d.logger.Error("notification delivery failed",
			"error", err,
			"client_id", msg.ClientID,
			"subject", msg.Subject)
		return
	}

	d.logger.Info("notification delivered",
		"client_id", msg.ClientID,
		"subject", msg.Subject)
}

func (d *Dispatcher) Shutdown() {
	d.logger.Info("shutting down notification dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("notification dispatcher shutdown complete")
}
