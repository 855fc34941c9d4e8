// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package locale holds the translated messages of the clock.
package locale

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var files embed.FS

// Fallback is the language used for missing translations.
const Fallback = "en"

// Table maps message keys to text in one language.
type Table struct {
	Lang     string
	messages map[string]string
	fallback map[string]string
}

func read(lang string) (map[string]string, error) {
	b, err := files.ReadFile(lang + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%s: no such language", lang)
	}
	m := make(map[string]string)
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", lang, err)
	}
	return m, nil
}

// Load returns the table for lang. An unknown language gives the
// fallback table and an error.
func Load(lang string) (*Table, error) {
	fb, err := read(Fallback)
	if err != nil {
		return nil, err
	}
	t := &Table{Lang: Fallback, messages: fb, fallback: fb}
	if lang == Fallback || lang == "" {
		return t, nil
	}
	m, err := read(lang)
	if err != nil {
		return t, err
	}
	t.Lang = lang
	t.messages = m
	return t, nil
}

// T returns the message for key, falling back to English and then
// to the key itself.
func (t *Table) T(key string) string {
	if s, ok := t.messages[key]; ok {
		return s
	}
	if s, ok := t.fallback[key]; ok {
		return s
	}
	return key
}

// Languages returns the available languages.
func Languages() []string {
	entries, _ := files.ReadDir(".")
	var langs []string
	for _, e := range entries {
		langs = append(langs, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(langs)
	return langs
}
