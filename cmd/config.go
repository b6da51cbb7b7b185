package main

import "time"

type Config struct {
	Mode                 string        `env:"MODE,default=single"`
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
	NumberOfWorkers      int           `env:"NUMBER_OF_WORKERS"`
	SessionSecret        string        `env:"SESSION_SECRET,required=true"`
	SessionTTL           time.Duration `env:"SESSION_TTL,default=120s"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL,default=30s"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	RedisAddr            string        `env:"REDIS_ADDR"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=5s"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=5s"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	NotifyBufferSize     int           `env:"NOTIFY_BUFFER_SIZE,default=128"`
	AdminEmail           string        `env:"ADMIN_EMAIL,required=true"`
	SMTPHost             string        `env:"SMTP_HOST,default=localhost"`
	SMTPPort             string        `env:"SMTP_PORT,default=25"`
	SMTPUsername         string        `env:"SMTP_USERNAME"`
	SMTPPassword         string        `env:"SMTP_PASSWORD"`
	SMTPFrom             string        `env:"SMTP_FROM,default=plaza@localhost"`
	LogLevel             string        `env:"LOG_LEVEL,default=info"`
}
