// Command jobs runs one background job immediately and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"laptoploan/internal/jobs"
	"laptoploan/internal/notifications"
	reservationrepo "laptoploan/internal/reservations/repository"
	userrepo "laptoploan/internal/users/repository"
	"laptoploan/pkg/client"
	"laptoploan/pkg/config"
)

const JobName = "laptoploan-jobs"

func main() {
	runOnce := flag.String("run-once", jobs.JobOverdueReminders,
		fmt.Sprintf("job to run (%s)", strings.Join(jobs.Names(), ", ")))
	flag.Parse()

	cfg := config.Load(JobName)

	mongo, err := client.ConnectMongo(context.Background(), cfg.Log, cfg.MongoURI, cfg.MongoDatabaseName, cfg.MongoConnTimeout)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	var mailer notifications.Mailer = notifications.NewLogMailer(cfg.Log.Component("mail"))
	if cfg.SendGridAPIKey != "" {
		mailer = notifications.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFromAddress, cfg.MailFromName)
	}
	dispatcher := notifications.NewDispatcher(mailer, notifications.DispatcherConfig{
		QueueSize:   cfg.MailQueueSize,
		Workers:     cfg.MailWorkers,
		SendTimeout: cfg.MailSendTimeout,
	}, cfg.Log.Component("mail"))
	notifier := notifications.NewNotifier(dispatcher, cfg.ContactAddress, cfg.Log.Component("mail"))

	runner := jobs.NewJobRunner(
		reservationrepo.NewMongoReservationRepository(cfg, mongo.DB),
		userrepo.NewMongoUserRepository(cfg, mongo.DB),
		notifier,
		cfg,
	)

	runErr := runner.Run(*runOnce)

	// wait for queued mail before the process exits
	dispatcher.Stop()
	if err := mongo.Disconnect(context.Background()); err != nil {
		cfg.Log.Error("MongoDB disconnect failed", "error", err)
	}

	if runErr != nil {
		cfg.Log.Error("Job failed", "job", *runOnce, "error", runErr)
		os.Exit(1)
	}
}
