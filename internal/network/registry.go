// Package network describes the TON networks tonscope can talk to.
package network

import (
	"errors"
	"net/url"
	"strings"
)

// ErrNetworkNotFound is returned when a network is not in the registry.
var ErrNetworkNotFound = errors.New("network not found")

// Network mode names.
const (
	Mainnet = "mainnet"
	Testnet = "testnet"
)

// Network holds the endpoints for one TON network.
type Network struct {
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	ToncenterURL string `json:"toncenter_url"`
	TonapiURL    string `json:"tonapi_url"`
	Explorer     string `json:"explorer"`
}

// Registry is the network registry.
type Registry struct {
	networks []Network
	byName   map[string]*Network
}

// NewRegistry returns the registry of mainnet and testnet.
func NewRegistry() *Registry {
	nets := allNetworks()
	r := &Registry{networks: nets, byName: make(map[string]*Network, len(nets))}
	for i := range r.networks {
		r.byName[r.networks[i].Name] = &r.networks[i]
	}
	return r
}

// All returns every network in the registry.
func (r *Registry) All() []Network {
	return r.networks
}

// Get finds a network by name ("mainnet", "testnet"), case-insensitively.
func (r *Registry) Get(name string) (*Network, error) {
	n, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	return n, nil
}

// TxURL links to a transaction on the explorer. The hash is escaped because
// base64 hashes may contain '/' and '+'.
func (n *Network) TxURL(hash string) string {
	return n.Explorer + "/transaction/" + url.PathEscape(hash)
}

// AddressURL links to an account on the explorer.
func (n *Network) AddressURL(address string) string {
	return n.Explorer + "/" + url.PathEscape(address)
}

func allNetworks() []Network {
	return []Network{
		{
			Name:         Mainnet,
			DisplayName:  "TON Mainnet",
			ToncenterURL: "https://toncenter.com/api/v2",
			TonapiURL:    "https://tonapi.io",
			Explorer:     "https://tonviewer.com",
		},
		{
			Name:         Testnet,
			DisplayName:  "TON Testnet",
			ToncenterURL: "https://testnet.toncenter.com/api/v2",
			TonapiURL:    "https://testnet.tonapi.io",
			Explorer:     "https://testnet.tonviewer.com",
		},
	}
}
