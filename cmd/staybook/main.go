package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"staybook/internal/notify"
	"staybook/internal/session"
	"staybook/pkg/client"
	"staybook/pkg/config"
	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"staybook/pkg/validation"
	"syscall"

	"github.com/urfave/cli/v2"
)

const ServiceName = "staybook"

// runtime is what every command needs once flags and configuration are read.
type runtime struct {
	cfg      *config.Config
	session  *session.Session
	producer *kafka.Producer
	// notified is set once an error notification has been printed, so the
	// returned error is not printed twice.
	notified bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := &runtime{}
	app := &cli.App{
		Name:  ServiceName,
		Usage: "browse hotels, book stays and manage your account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Usage: "booking API base URL", EnvVars: []string{config.EnvAPIBaseURL}},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log requests and events to stderr"},
		},
		Before:   rt.setup,
		After:    rt.teardown,
		Commands: rt.commands(),
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		rt.printError(err)
		os.Exit(1)
	}
}

func (rt *runtime) setup(c *cli.Context) error {
	cfg := config.Load(ServiceName)
	if api := c.String("api"); api != "" {
		cfg.APIBaseURL = api
	}
	if cfg.LogFile == "" {
		level := logger.WARN
		if c.Bool("verbose") {
			level = cfg.LogLevel
		}
		cfg.Log = logger.New(logger.Config{
			Level:   level,
			Format:  logger.TEXT,
			Output:  os.Stderr,
			Service: ServiceName,
		})
	}
	rt.cfg = cfg

	store := cfg.CredentialStore()
	rt.session = session.New(session.Config{
		Client: client.New(client.Options{
			BaseURL: cfg.APIBaseURL,
			Tokens:  store,
			Timeout: cfg.ClientTimeout,
			Log:     cfg.Log,
		}),
		Store: store,
		Log:   cfg.Log,
	})

	bus := rt.session.Bus()
	bus.Subscribe(notify.NewLogSink(cfg.Log).Handle)
	bus.Subscribe(func(e notify.Event) { rt.printNotification(c, e) })

	if cfg.KafkaEnabled() {
		producer, err := kafka.NewProducer(cfg.Kafka(), cfg.Log)
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		rt.producer = producer
		bus.Subscribe(notify.NewKafkaSink(producer, cfg.Log).Handle)
		cfg.Log.Info("Exporting events to Kafka", "topic", producer.Topic())
	}
	return nil
}

func (rt *runtime) teardown(_ *cli.Context) error {
	if rt.producer != nil {
		if err := rt.producer.Close(); err != nil {
			rt.cfg.Log.Error("failed to close kafka producer", "error", err)
		}
	}
	return nil
}

func (rt *runtime) printNotification(c *cli.Context, e notify.Event) {
	if e.Kind != notify.KindNotification {
		return
	}
	if e.Level == notify.LevelError {
		rt.notified = true
		fmt.Fprintf(c.App.ErrWriter, "error: %s\n", e.Message)
		return
	}
	fmt.Fprintln(c.App.Writer, e.Message)
}

func (rt *runtime) printError(err error) {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		for _, v := range verrs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", v.Field, v.Message)
		}
		return
	}
	if rt.notified {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", describe(err))
}
