package config

// ServerConfig holds resolved HTTP server configuration.
type ServerConfig struct {
	ListenAddr       string   // Address for the API server (default: "127.0.0.1:8765")
	DashboardURL     string   // Dashboard origin for CORS (default: "http://localhost:5173")
	AllowedWSOrigins []string // Additional allowed WebSocket origin patterns
}

// OllamaConfig holds resolved Ollama backend configuration.
type OllamaConfig struct {
	// BaseURL of the Ollama host (default: "http://localhost:11434")
	BaseURL string

	// KeepAlive asks the host to keep the model loaded between requests
	// (Go duration string sent verbatim, default: "30m")
	KeepAlive string
}
