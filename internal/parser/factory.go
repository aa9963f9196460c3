package parser

import (
	"fmt"

	"babinium/internal/config"
	"babinium/internal/port"
)

// ProviderFactory is a function that creates a VisionClient from the parser config.
type ProviderFactory func(cfg *config.ParserConfig) (port.VisionClient, error)

// registry of vision provider factories, populated by init() in each provider package
// or explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a vision provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewVisionClient creates a VisionClient from the parser config using the registered factory.
func NewVisionClient(cfg *config.ParserConfig) (port.VisionClient, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown vision provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
