package config

// Config holds all tonscope configuration.
type Config struct {
	NetworkMode     string `json:"network_mode"`     // "mainnet" | "testnet"
	OutputDir       string `json:"output_dir"`       // where txs/trace results are written
	DefaultLimit    int    `json:"default_limit"`    // getTransactions page size
	Archival        bool   `json:"archival"`
	ToncenterURL    string `json:"toncenter_url,omitempty"` // empty = network default
	TonapiURL       string `json:"tonapi_url,omitempty"`
	RequestTimeout  int    `json:"request_timeout"` // seconds
	PollInterval    int    `json:"poll_interval"`   // seconds
	ConfirmTimeout  int    `json:"confirm_timeout"` // seconds
	TimestampTraces bool   `json:"timestamp_traces"`

	// internal: config dir path used for Save()
	configDir string
}

// Endpoints are the resolved API base URLs for one run.
type Endpoints struct {
	Toncenter string
	Tonapi    string
	Explorer  string
}
