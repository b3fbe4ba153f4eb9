package httpserver

import (
	"net/http"

	"github.com/rembus-io/tlsserve/internal/telemetry/logger"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Root is the directory served at "/".
	Root string

	// Logger receives access and panic logs.
	Logger logger.Logger
}

// NewRouter serves cfg.Root with http.FileServer.
//
// Order: Logging -> RequestID -> AccessLog -> Recover -> AllowMethods -> FileServer
func NewRouter(cfg *RouterConfig) http.Handler {
	if cfg == nil {
		cfg = &RouterConfig{}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	root := cfg.Root
	if root == "" {
		root = "."
	}

	files := http.FileServer(http.Dir(root))

	return Chain(files,
		Logging(log),
		RequestID(),
		AccessLog(),
		Recover(),
		AllowMethods(http.MethodGet, http.MethodHead),
	)
}
