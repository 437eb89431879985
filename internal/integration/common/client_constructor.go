package common

import (
	"github.com/lexyai/drafter/internal/config"
	pkgHTTP "github.com/lexyai/drafter/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds a logged HTTP connector from the shared client settings.
// A configured token is sent as a bearer token unless extra options set their own credentials.
func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger, extra ...pkgHTTP.HttpOpts) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
	}
	if len(extra) == 0 {
		opts = append(opts, pkgHTTP.WithAuthToken(cfg.Token))
	}
	opts = append(opts, extra...)

	return pkgHTTP.NewConnector(connCfg, opts...)
}
