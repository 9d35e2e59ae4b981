// internal/i18n/i18n.go
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed locales/*.json
var localeFS embed.FS

const DefaultLang = "es"

type I18n struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	defaultLang  string
}

var instance *I18n
var once sync.Once
var initErr error

// Initialize loads the embedded catalogs. T calls it lazily, so calling it
// from main only serves to surface a broken catalog at startup.
func Initialize() error {
	once.Do(func() {
		instance = &I18n{
			translations: make(map[string]map[string]string),
			defaultLang:  DefaultLang,
		}
		initErr = instance.LoadTranslations(DefaultLang)
	})
	return initErr
}

func (i *I18n) LoadTranslations(langs ...string) error {
	for _, lang := range langs {
		filePath := "locales/" + lang + ".json"

		data, err := localeFS.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read locale file %s: %w", filePath, err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return fmt.Errorf("failed to unmarshal locale file %s: %w", filePath, err)
		}

		i.mu.Lock()
		i.translations[lang] = translations
		i.mu.Unlock()
	}

	return nil
}

func (i *I18n) Lookup(lang, key string, args ...interface{}) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	text, ok := i.translations[lang][key]
	if !ok {
		text, ok = i.translations[i.defaultLang][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// T renders key from the default catalog. Unknown keys come back verbatim.
func T(key string, args ...interface{}) string {
	if err := Initialize(); err != nil {
		return key
	}
	return instance.Lookup(DefaultLang, key, args...)
}
