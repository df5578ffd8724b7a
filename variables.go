package macpack

import (
	"bytes"
	"strings"
	"text/template"
)

type StringMap map[string]string

var templateFuncs = template.FuncMap{
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	"trim":  strings.TrimSpace,
	"replace": func(from, to, input string) string {
		return strings.ReplaceAll(input, from, to)
	},
}

// ExpandVariables expands template references like {{.name}} in str with the
// given variable map. Intended for message strings, so it is lenient: on any
// template error the input is logged and returned unchanged.
func ExpandVariables(str string, variables StringMap) string {
	expanded, err := expandTemplate(str, variables, "zero")
	if err != nil {
		log.Warn().Err(err).Str("template", str).Msg("invalid string template")
		return str
	}
	return expanded
}

// ExpandVariablesStrict is ExpandVariables for descriptor values: any parse
// error or reference to an unknown variable is returned as an error instead
// of being papered over.
func ExpandVariablesStrict(str string, variables StringMap) (string, error) {
	return expandTemplate(str, variables, "error")
}

func expandTemplate(str string, variables StringMap, missingKey string) (string, error) {
	templ, err := template.New("").
		Funcs(templateFuncs).
		Option("missingkey=" + missingKey).
		Parse(str)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := templ.Execute(&buf, variables); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MergeVariables combines several variable maps into a single one. Duplicate
// keys are overridden by the value in the last map which has the key.
func MergeVariables(varMaps ...StringMap) StringMap {
	merged := make(StringMap)
	for _, vars := range varMaps {
		for k, v := range vars {
			merged[k] = v
		}
	}
	return merged
}
