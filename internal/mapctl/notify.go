package mapctl

import "github.com/rs/zerolog"

// Notifier shows short user-facing messages.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
}

// logNotifier is used when the host supplies no notifier.
type logNotifier struct {
	log zerolog.Logger
}

func (n logNotifier) Info(msg string)    { n.log.Info().Msg(msg) }
func (n logNotifier) Success(msg string) { n.log.Info().Bool("success", true).Msg(msg) }
func (n logNotifier) Error(msg string)   { n.log.Error().Msg(msg) }
