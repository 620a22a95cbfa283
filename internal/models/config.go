package models

import "time"

// Config represents the application configuration
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Email    EmailConfig  `yaml:"email"`
	Sync     SyncConfig   `yaml:"sync"`
	LogLevel string       `yaml:"logLevel"`
}

// ServerConfig represents the HTTP listener configuration
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// EmailConfig represents IMAP email configuration
type EmailConfig struct {
	Imap         string        `yaml:"imap"`
	Login        string        `yaml:"login"`
	Password     string        `yaml:"password"`
	MailBox      string        `yaml:"mailbox"`
	SenderFilter string        `yaml:"senderFilter"`
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
}

// SyncConfig represents pipeline and listing limits
type SyncConfig struct {
	DefaultLimit     int `yaml:"defaultLimit"`
	ListDefaultLimit int `yaml:"listDefaultLimit"`
	ListMaxLimit     int `yaml:"listMaxLimit"`
	ExcerptLength    int `yaml:"excerptLength"`
}
