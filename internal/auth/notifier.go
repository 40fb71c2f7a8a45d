// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package auth

import (
	"context"
	"log/slog"
)

// LogNotifier writes reset tokens to the structured log instead of sending
// email. Used in development and as the default until a mail provider is
// configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a [LogNotifier] writing to the given logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendPasswordReset records that a reset was requested. The token itself is
// never written to the log; only its length is.
func (notifier *LogNotifier) SendPasswordReset(context context.Context, email, token string) error {
	notifier.logger.InfoContext(context, "password_reset_requested",
		slog.String("email", email),
		slog.Int("token_length", len(token)),
	)
	return nil
}
