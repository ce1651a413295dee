package config

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
)

const HelpMessage = `
Bus tracker: ingests bus positions and streams them to websocket observers.

Usage:
  tracker [-mode <mode>] [-config-path <file>]
  tracker -help

Modes:
  tracking-service   serve the HTTP API, websocket feeds and GTFS-RT export (default)
  migrate            apply database migrations and exit
  seed               load the sample fleet and exit

Flags:
  -config-path       path to the config yaml file (default config.yaml)
  -mode              application mode
  -help              show this message

Every setting can be overridden with an environment variable, e.g. DATABASE_HOST or LOG_LEVEL.
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

const redacted = "******"

// PrintConfig writes the effective configuration to stdout with secrets masked.
func PrintConfig(cfg *Config) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	rows := [][2]string{
		{"mode", string(cfg.Mode)},
		{"server.addr", cfg.Server.Addr()},
		{"database", fmt.Sprintf("%s@%s:%s/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)},
		{"database.password", mask(cfg.Database.Password)},
		{"database.auto_migrate", fmt.Sprint(cfg.Database.AutoMigrate)},
		{"websocket.send_queue_size", fmt.Sprint(cfg.WebSocket.SendQueueSize)},
		{"websocket.max_overflows", fmt.Sprint(cfg.WebSocket.MaxOverflows)},
		{"log.level", cfg.Log.Level},
		{"log.file_path", cfg.Log.FilePath},
		{"retention.days", fmt.Sprint(cfg.Retention.Days)},
		{"rabbitmq.enabled", fmt.Sprint(cfg.RabbitMQ.Enabled)},
		{"nats.enabled", fmt.Sprint(cfg.NATS.Enabled)},
		{"redis.enabled", fmt.Sprint(cfg.Redis.Enabled)},
	}

	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return redacted
}
