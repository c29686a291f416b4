package chat

import (
	"context"
	"errors"
	"time"

	"github.com/dlr1251/chimeneasluque/internal/metrics"

	"github.com/rs/zerolog"
)

const (
	SourceGrok = "grok"
	SourceFAQ  = "faq"
)

// ErrEmptyMessage rejects blank chat input before any upstream call.
var ErrEmptyMessage = errors.New("message is required")

// fallbackMessage is shown when neither the upstream nor the FAQ corpus
// can answer.
const fallbackMessage = "Lo sentimos, estamos experimentando problemas técnicos. Por favor, contacte con nosotros directamente a través del formulario de contacto."

// Reply is the service answer to one chat message.
type Reply struct {
	Message  string `json:"message"`
	Source   string `json:"source"`
	Fallback bool   `json:"fallback,omitempty"`
}

// Service relays chat messages to the LLM upstream with a bounded timeout,
// degrading to FAQ answers whenever the upstream cannot respond.
type Service struct {
	provider Completer
	timeout  time.Duration
	logger   *zerolog.Logger
}

// NewService builds the chat service. A nil provider means no API key is
// configured and every reply comes from the FAQ corpus.
func NewService(provider Completer, timeout time.Duration, logger *zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Service{provider: provider, timeout: timeout, logger: logger}
}

// Respond answers a single user message given the prior conversation.
func (s *Service) Respond(ctx context.Context, message string, history []Message) (*Reply, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}

	relevant := FindRelevantFAQs(message)

	if s.provider == nil {
		s.logger.Warn().Msg("chat upstream not configured, using FAQ fallback")
		return s.fallbackReply(relevant), nil
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: SystemPrompt()})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: message})

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.provider.Complete(ctx, messages)
	if err != nil {
		s.logger.Error().Err(err).Msg("chat upstream failed, using FAQ fallback")
		return s.fallbackReply(relevant), nil
	}

	metrics.IncChatReply(SourceGrok)
	return &Reply{Message: answer, Source: SourceGrok}, nil
}

func (s *Service) fallbackReply(relevant []FAQ) *Reply {
	metrics.IncChatReply(SourceFAQ)
	if len(relevant) > 0 {
		return &Reply{Message: relevant[0].Answer, Source: SourceFAQ, Fallback: true}
	}
	return &Reply{Message: fallbackMessage, Source: SourceFAQ, Fallback: true}
}
