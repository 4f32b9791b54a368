// Package checkers holds the rule families run by the analyzer. Every
// checker is a pure function of one parsed, classified file, except for the
// duplicate detectors which read the run-scoped registries filled during the
// index pass.
package checkers

import (
	"tafscan.dev/pkg/tafscan/internal/adapter"
	"tafscan.dev/pkg/tafscan/internal/domain"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

// Base supplies the parts of domain.Checker most checkers share.
type Base struct {
	name string
}

// Name returns the checker name.
func (b Base) Name() string {
	return b.name
}

// CheckProject reports nothing.
func (Base) CheckProject(m.Path) ([]m.Violation, error) {
	return nil, nil
}

// Registries are the duplicate-detection tables of one analysis run.
type Registries struct {
	Locators *LocatorRegistry
	Steps    *StepRegistry
}

// NewRegistries creates empty registries.
func NewRegistries() Registries {
	return Registries{
		Locators: NewLocatorRegistry(),
		Steps:    NewStepRegistry(),
	}
}

// Default returns the fixed checker list sharing reg.
func Default(reg Registries, fsAdapter adapter.SourceFSAdapter) []domain.Checker {
	return []domain.Checker{
		NewDefinitionChecker(),
		NewAdaptationChecker(reg.Locators),
		NewQualityChecker(),
		NewStructureChecker(fsAdapter),
		NewBDDChecker(reg.Steps),
	}
}

// Factory returns a domain.CheckerFactory that builds Default with fresh
// registries for every run.
func Factory(fsAdapter adapter.SourceFSAdapter) domain.CheckerFactory {
	return func() []domain.Checker {
		return Default(NewRegistries(), fsAdapter)
	}
}

func isFeatureFile(path m.Path) bool {
	return path.Ext() == ".feature"
}

// lineSet keeps one finding per line.
type lineSet map[int]bool

func (s lineSet) add(line int) bool {
	if s[line] {
		return false
	}

	s[line] = true

	return true
}

// callName renders receiver.method, or just method for bare calls.
func callName(call m.Call) string {
	if call.ObjectName == "" {
		return call.MethodName
	}

	return call.ObjectName + "." + call.MethodName
}
