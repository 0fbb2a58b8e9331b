package buffer

import (
	"sync"

	"github.com/go-text/typesetting/language"
	xlang "golang.org/x/text/language"
)

var defaultLanguage struct {
	once sync.Once
	mu   sync.RWMutex
	lang Language
}

// DefaultLanguage returns the process default language. It is derived from
// the environment (LC_ALL, LC_CTYPE, LANG) on first use, unless
// SetDefaultLanguage has been called before.
func DefaultLanguage() Language {
	defaultLanguage.once.Do(func() {
		l := language.DefaultLanguage()
		defaultLanguage.mu.Lock()
		if defaultLanguage.lang == "" {
			defaultLanguage.lang = l
		}
		defaultLanguage.mu.Unlock()
	})
	defaultLanguage.mu.RLock()
	defer defaultLanguage.mu.RUnlock()
	return defaultLanguage.lang
}

// SetDefaultLanguage overrides the process default language used by
// GuessSegmentProperties.
func SetDefaultLanguage(l Language) {
	defaultLanguage.mu.Lock()
	defaultLanguage.lang = l
	defaultLanguage.mu.Unlock()
}

// LanguageFromTag converts a golang.org/x/text language tag.
func LanguageFromTag(tag xlang.Tag) Language {
	return language.NewLanguage(tag.String())
}
