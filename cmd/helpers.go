package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Mohsinsiddi/tonscope/internal/config"
	"github.com/Mohsinsiddi/tonscope/internal/keys"
	"github.com/Mohsinsiddi/tonscope/internal/network"
	"github.com/Mohsinsiddi/tonscope/internal/persist"
	"github.com/Mohsinsiddi/tonscope/internal/query"
	"github.com/Mohsinsiddi/tonscope/internal/tonapi"
	"github.com/Mohsinsiddi/tonscope/internal/toncenter"
)

// stores returns the key store, opening the OS keychain on first use.
func stores() keys.Store {
	if keyStore == nil {
		keyStore = keys.DefaultKeystore()
	}
	return keyStore
}

// activeNetwork returns the registry entry for the current network mode.
func activeNetwork() (*network.Network, error) {
	n, err := registry.Get(cfg.NetworkMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %q — run `tonscope network list`", err, cfg.NetworkMode)
	}
	return n, nil
}

func endpoints() (config.Endpoints, error) {
	return cfg.Endpoints(registry, cfg.NetworkMode)
}

func httpClient() *http.Client {
	return &http.Client{Timeout: cfg.RequestTimeoutDuration()}
}

func newToncenter() (*toncenter.Client, error) {
	ep, err := endpoints()
	if err != nil {
		return nil, err
	}
	key, err := keys.Resolve(stores(), keys.Toncenter)
	if err != nil {
		return nil, err
	}
	logger.Debug("toncenter client", "base_url", ep.Toncenter, "api_key", key != "")
	return toncenter.New(ep.Toncenter, key,
		toncenter.WithHTTPClient(httpClient()),
		toncenter.WithLogger(logger.With("api", "toncenter")),
	), nil
}

func newTonapi() (*tonapi.Client, error) {
	ep, err := endpoints()
	if err != nil {
		return nil, err
	}
	key, err := keys.Resolve(stores(), keys.Tonapi)
	if err != nil {
		return nil, err
	}
	logger.Debug("tonapi client", "base_url", ep.Tonapi, "api_key", key != "")
	return tonapi.New(ep.Tonapi, key,
		tonapi.WithHTTPClient(httpClient()),
		tonapi.WithLogger(logger.With("api", "tonapi")),
	), nil
}

func newWriter() *persist.Writer {
	return persist.NewWriter(cfg.OutputDir)
}

// compileJQ compiles expr, returning nil for an empty expression.
func compileJQ(expr string) (*query.Filter, error) {
	if expr == "" {
		return nil, nil
	}
	return query.Compile(expr)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
