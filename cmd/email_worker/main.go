package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jyotir-aditya/fullstackAssignment/config"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/helpers"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/mailer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadWorker()
	if err != nil {
		helpers.NewLogger("email-worker", "production").WithError(err).Fatal("invalid configuration")
	}
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}

	qc, err := helpers.OpenQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		logger.WithError(err).Fatal("rabbitmq unavailable")
	}
	defer qc.Close()

	if err := qc.Ch.Qos(16, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	msgs, err := qc.Ch.Consume(qc.Queue, "", false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	proc := &mailer.Processor{
		Sender:  mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		AppName: cfg.AppName,
		Logger:  logger,
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			c, cancelSend := context.WithTimeout(ctx, 15*time.Second)
			err := proc.Handle(c, msg.Body)
			cancelSend()
			entry := logger.WithField("message_id", msg.MessageId)
			switch {
			case err == nil:
				_ = msg.Ack(false)
			case errors.Is(err, mailer.ErrPermanent):
				entry.WithError(err).Warn("dropping email job")
				_ = msg.Nack(false, false)
			case msg.Redelivered:
				entry.WithError(err).Error("email send failed twice, dropping")
				_ = msg.Nack(false, false)
			default:
				entry.WithError(err).Warn("email send failed, requeueing")
				_ = msg.Nack(false, true)
			}
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	select {
	case <-stop:
	case <-done:
		logger.Warn("delivery channel closed")
	}
	logger.Info("shutting down...")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
