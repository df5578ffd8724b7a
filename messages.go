package macpack

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/cloudfoundry/jibber_jabber"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

const (
	DefaultLanguage = "en"
	messagesDir     = "messages"
	displayKey      = "_language_display"
)

// Translator resolves user-facing message strings, like the remediation texts
// printed by failed preflight checks, against the message catalogs embedded
// under resources/messages. The initial language is matched against the
// system locale.
type Translator struct {
	language    string
	langStrings map[string]StringMap
	variables   StringMap
}

// NewTranslator returns a Translator without any variable lookup.
func NewTranslator() *Translator {
	return NewTranslatorVar(StringMap{})
}

// NewTranslatorVar returns a Translator whose messages may reference the
// given variables. It scans for any yaml files inside the messages folder in
// the resources box.
func NewTranslatorVar(variables StringMap) *Translator {
	catalogFiles := regexp.MustCompile(`\.ya?ml$`)
	listing, err := GetResourceFiltered(messagesDir, catalogFiles)
	if err != nil {
		log.Error().Err(err).Msg("no message catalogs found")
		return &Translator{langStrings: map[string]StringMap{}, variables: variables}
	}
	langTag := regexp.MustCompile(`.*/([^/]+)\.ya?ml`)
	languages := make(map[string]StringMap)
	for _, filename := range regexp.MustCompile(`\n`).Split(listing, -1) {
		if !catalogFiles.MatchString(filename) {
			continue
		}
		content := MustGetResource(filename)
		strings := make(StringMap)
		if err := yaml.Unmarshal([]byte(content), strings); err != nil {
			log.Warn().Str("file", filename).Msg("unable to parse message catalog")
			continue
		}
		languages[langTag.ReplaceAllString(filename, "$1")] = strings
	}
	t := &Translator{langStrings: languages, variables: variables}
	if err := t.SetLanguage(t.localeMatch()); err != nil {
		if err := t.SetLanguage(DefaultLanguage); err != nil {
			return nil
		}
	}
	return t
}

// Get returns the message for a given key in the current language, with
// variable references expanded.
func (t *Translator) Get(key string) string {
	return ExpandVariables(t.getRaw(key, t.language), t.variables)
}

// GetLanguage returns the identifier (e.g. "en") for the current language.
func (t *Translator) GetLanguage() string { return t.language }

// GetLanguages returns the identifiers of all available languages. The
// default language (if it has a catalog) is first, the rest is sorted
// alphabetically.
func (t *Translator) GetLanguages() (languages []string) {
	hasDefault := false
	for lang := range t.langStrings {
		if lang == DefaultLanguage {
			hasDefault = true
		} else {
			languages = append(languages, lang)
		}
	}
	sort.Strings(languages)
	if hasDefault {
		languages = append([]string{DefaultLanguage}, languages...)
	}
	return languages
}

// LanguageOptions returns one "code (display name)" entry per available
// language, in GetLanguages order, for use in help texts. The display name
// comes from the catalog's _language_display key.
func (t *Translator) LanguageOptions() (options []string) {
	for _, lang := range t.GetLanguages() {
		if display, ok := t.langStrings[lang][displayKey]; ok {
			options = append(options, lang+" ("+display+")")
		} else {
			options = append(options, lang)
		}
	}
	return options
}

// SetLanguage sets the translator's language, given a language code string
// (e.g. "en").
func (t *Translator) SetLanguage(language string) error {
	if _, ok := t.langStrings[language]; !ok {
		return fmt.Errorf("no language '%s'", language)
	}
	t.language = language
	return nil
}

// SetVariables replaces the variable lookup used during message expansion.
func (t *Translator) SetVariables(variables StringMap) { t.variables = variables }

// localeMatch returns the available language best matching the current system
// locale, as a language code string (e.g. "en").
func (t *Translator) localeMatch() string {
	languageTags := []language.Tag{language.Raw.Make(DefaultLanguage)}
	for languageTag := range t.langStrings {
		if languageTag != DefaultLanguage && languageTag != "" {
			languageTags = append(languageTags, language.Raw.Make(languageTag))
		}
	}
	locale, _ := jibber_jabber.DetectIETF()
	match, _, _ := language.NewMatcher(languageTags).Match(language.Make(locale))
	return match.String()
}

// getRaw returns the message for a given key in a given language, without
// template expansion. Falls back to the default language, then to the key
// itself, so a missing catalog entry never hides a diagnostic entirely.
func (t *Translator) getRaw(key, language string) string {
	if strings, ok := t.langStrings[language]; ok {
		if value, ok := strings[key]; ok {
			return value
		}
	}
	if strings, ok := t.langStrings[DefaultLanguage]; ok {
		if value, ok := strings[key]; ok {
			return value
		}
	}
	return key
}
