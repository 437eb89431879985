package callback

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/config"
	"github.com/lexyai/drafter/internal/entity"
	"github.com/lexyai/drafter/internal/integration/common"
	pkghttp "github.com/lexyai/drafter/pkg/http"
	"go.uber.org/zap"
)

// ErrNoCallbackURL is returned when neither the request nor the config names a target.
var ErrNoCallbackURL = errors.New("no callback url configured")

type Connector struct {
	config    config.CallbackConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.CallbackConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// SendContract sends a contract ready event to the callback URL
func (c *Connector) SendContract(ctx context.Context, callbackURL string, draftID string, data *entity.GenerateContractResponse) {
	err := c.Send(ctx, callbackURL, draftID, &entity.CallbackEvent{
		Event: entity.CallbackEventTypeContractReady,
		Data:  data,
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to send contract callback", zap.Error(err))
	}
}

// SendError sends an error event to the callback URL
func (c *Connector) SendError(ctx context.Context, callbackURL string, draftID string, message string, details map[string]any) {
	err := c.Send(ctx, callbackURL, draftID, &entity.CallbackEvent{
		Event: entity.CallbackEventTypeError,
		Data: &entity.CallbackErrorData{
			Error: entity.CallbackErrorDetails{
				Message: message,
				Details: details,
			},
		},
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to send error callback", zap.Error(err))
	}
}

// Send posts event to callbackURL, or to the configured endpoint when it is empty.
func (c *Connector) Send(ctx context.Context, callbackURL string, draftID string, event *entity.CallbackEvent) error {
	if callbackURL == "" {
		callbackURL = c.config.CallbackEndpoint
	}
	if callbackURL == "" {
		return ErrNoCallbackURL
	}
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	ctxzap.Debug(ctx, "sending callback event",
		zap.String("event_type", string(event.Event)),
		zap.String("callback_url", callbackURL),
		zap.String("draft_id", draftID),
		zap.String("timestamp", event.Timestamp),
	)

	opts := []pkghttp.RequestOpt{
		pkghttp.WithHeader("X-Request-ID", draftID),
		pkghttp.WithURL(callbackURL),
	}

	retryOpts := append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(pkghttp.IsRetryable),
	)
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, "", event, nil, opts...)
	}, retryOpts...)
	if err != nil {
		return fmt.Errorf("failed to send callback, event_type: %s, url: %s, error: %w", string(event.Event), callbackURL, err)
	}

	ctxzap.Info(ctx, "callback sent successfully",
		zap.String("event_type", string(event.Event)),
		zap.String("callback_url", callbackURL),
		zap.String("draft_id", draftID),
	)
	return nil
}
