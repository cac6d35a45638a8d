package translator

import (
	"path/filepath"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Translator is the process-wide message bundle. Nil until
// InitTranslator has run; apierrors falls back to raw keys then.
var Translator *i18n.Bundle

type Config struct {
	TranslationFolder  string
	SupportedLanguages []string
}

const (
	LanguageEn = "en"
	LanguageFr = "fr"
)

// InitTranslator loads every toml message file found in the
// translation folder. A missing folder or unreadable file is logged
// and skipped; the bundle stays usable with whatever loaded.
func InitTranslator(cfg Config) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := filepath.Glob(filepath.Join(cfg.TranslationFolder, "*.toml"))
	if err != nil {
		zap.L().Error("failed to scan translation folder", zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}
	if len(files) == 0 {
		zap.L().Warn("no translation files found", zap.String("folder", cfg.TranslationFolder))
	}

	for _, file := range files {
		if _, err := bundle.LoadMessageFile(file); err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", file), zap.Error(err))
		}
	}

	Translator = bundle
}
