package env

import (
	"cashflow/internal/config"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

const (
	httpHostEnvName   = "HTTP_HOST"
	httpPortEnvName   = "HTTP_PORT"
	corsOriginEnvName = "CORS_ORIGIN"
	cookieSecureName  = "COOKIE_SECURE"

	defaultHTTPPort = "8000"
)

type httpConfig struct {
	host    string
	port    string
	origins []string
	secure  bool
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	port := os.Getenv(httpPortEnvName)
	if len(port) == 0 {
		port = defaultHTTPPort
	}

	var origins []string
	for _, o := range strings.Split(os.Getenv(corsOriginEnvName), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	// по умолчанию cookie только для https
	secure := true
	if v := os.Getenv(cookieSecureName); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", cookieSecureName, err)
		}
		secure = b
	}

	return &httpConfig{
		host:    os.Getenv(httpHostEnvName),
		port:    port,
		origins: origins,
		secure:  secure,
	}, nil
}

func (cfg *httpConfig) Address() string {
	return net.JoinHostPort(cfg.host, cfg.port)
}

func (cfg *httpConfig) CORSOrigins() []string {
	return cfg.origins
}

func (cfg *httpConfig) SecureCookies() bool {
	return cfg.secure
}
