package translate

import (
	"fmt"
	"time"

	"dubboard/internal/config"
	"dubboard/internal/services"
)

// NewTranslator selects a backend from the [translator] config section.
func NewTranslator(cfg *config.Config) (Translator, error) {
	switch cfg.Translator.Provider {
	case "google":
		return NewGoogleTranslator(time.Duration(cfg.Translator.RequestTimeout) * time.Second), nil
	case "openai":
		return NewOpenAITranslator(cfg.Translator), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "translating", "backend",
			fmt.Sprintf("unknown translator provider %q", cfg.Translator.Provider), nil)
	}
}
