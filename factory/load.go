package factory

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warp/payroll-engine/payroll"
)

//go:embed rules/default.json
var defaultRules embed.FS

// DefaultRuleBook returns the rule book shipped with the engine (Ireland,
// Italy and Germany).
func DefaultRuleBook() (*payroll.RuleBook, error) {
	data, err := defaultRules.ReadFile("rules/default.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read default rule book: %w", err)
	}
	return NewRuleFactory().ParseJSON(data)
}

// Load reads a rule book from path. Files are parsed by extension; a
// directory is read as the legacy XML layout.
func Load(path string) (*payroll.RuleBook, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule book: %w", err)
	}
	f := NewRuleFactory()

	if info.IsDir() {
		return loadXMLDir(f, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule book: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return f.ParseJSON(data)
	case ".yaml", ".yml":
		return f.ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported rule book format: %s", path)
	}
}

// LoadOrDefault loads path, or the embedded default when path is empty.
func LoadOrDefault(path string) (*payroll.RuleBook, error) {
	if path == "" {
		return DefaultRuleBook()
	}
	return Load(path)
}

func loadXMLDir(f *RuleFactory, dir string) (*payroll.RuleBook, error) {
	open := func(name string) (*os.File, error) {
		file, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		return file, nil
	}

	rules, err := open(XMLRulesFile)
	if err != nil {
		return nil, err
	}
	defer rules.Close()

	locations, err := open(XMLLocationsFile)
	if err != nil {
		return nil, err
	}
	defer locations.Close()

	currencies, err := open(XMLCurrenciesFile)
	if err != nil {
		return nil, err
	}
	defer currencies.Close()

	return f.ParseXML(rules, locations, currencies)
}
