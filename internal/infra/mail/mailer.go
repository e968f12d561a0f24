package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// 開発・検証用のメーラー。実際の配送は外部サービスに委ねる前提で、
// ここでは送信内容をログに残すだけ。
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email string, fullName string, resetURL string) error {
	m.log.Info().
		Str("to", email).
		Str("name", fullName).
		Str("reset_url", resetURL).
		Msg("password reset mail")
	return nil
}
