package workflow

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configurationLoadErrorTemplateConstant         = "failed to load workflow configuration: %w"
	configurationParseErrorTemplateConstant        = "failed to parse workflow configuration: %w"
	configurationPathRequiredMessageConstant       = "workflow configuration path must be provided"
	configurationEmptyStepsMessageConstant         = "workflow configuration must define at least one step"
	configurationErrandMissingTemplateConstant     = "workflow step %d missing errand name"
	configurationToolNameRequiredMessageConstant   = "workflow tool names must be non-empty"
	configurationDuplicateToolNameTemplateConstant = "workflow configuration defines duplicate tool %s"
	configurationToolErrandMissingTemplateConstant = "workflow tool %s missing errand name"
	configurationUnknownToolTemplateConstant       = "workflow step %d references unknown tool %s"
	optionToolReferenceKeyConstant                 = "tool"
)

// ErrandType identifies the errand a workflow step runs.
type ErrandType string

// Supported errands.
const (
	ErrandTypeFlightDeals ErrandType = ErrandType("flight-deals")
	ErrandTypeStockAlert  ErrandType = ErrandType("stock-alert")
	ErrandTypeWorkoutLog  ErrandType = ErrandType("workout-log")
	ErrandTypeHabitPixel  ErrandType = ErrandType("habit-pixel")
)

// Configuration describes ordered workflow steps and reusable tool definitions loaded from YAML or JSON.
type Configuration struct {
	Tools []NamedToolConfiguration `yaml:"tools" json:"tools"`
	Steps []StepConfiguration      `yaml:"steps" json:"steps"`
}

// NamedToolConfiguration is a reusable step definition referenced from steps with `with: {tool: name}`.
type NamedToolConfiguration struct {
	Name              string `yaml:"name" json:"name"`
	StepConfiguration `yaml:",inline" json:",inline"`
}

// StepConfiguration associates an errand with declarative options.
type StepConfiguration struct {
	Errand  ErrandType     `yaml:"errand" json:"errand"`
	Options map[string]any `yaml:"with" json:"with"`
}

// LoadConfiguration reads the workflow definition from disk, resolves tool references and validates it.
func LoadConfiguration(filePath string) (Configuration, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Configuration{}, errors.New(configurationPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Configuration{}, fmt.Errorf(configurationLoadErrorTemplateConstant, readError)
	}

	return ParseConfiguration(contentBytes)
}

// ParseConfiguration decodes workflow content. A top-level `workflow:` wrapper is accepted.
func ParseConfiguration(contentBytes []byte) (Configuration, error) {
	var configuration Configuration
	if unmarshalError := yaml.Unmarshal(contentBytes, &configuration); unmarshalError != nil {
		return Configuration{}, fmt.Errorf(configurationParseErrorTemplateConstant, unmarshalError)
	}

	if len(configuration.Tools) == 0 && len(configuration.Steps) == 0 {
		var wrapper struct {
			Workflow Configuration `yaml:"workflow" json:"workflow"`
		}
		if nestedError := yaml.Unmarshal(contentBytes, &wrapper); nestedError == nil {
			configuration = wrapper.Workflow
		}
	}

	if len(configuration.Steps) == 0 {
		return Configuration{}, errors.New(configurationEmptyStepsMessageConstant)
	}

	toolLookup, toolsError := buildToolLookup(configuration.Tools)
	if toolsError != nil {
		return Configuration{}, toolsError
	}

	for stepIndex := range configuration.Steps {
		resolvedStep, resolveError := resolveStep(stepIndex+1, configuration.Steps[stepIndex], toolLookup)
		if resolveError != nil {
			return Configuration{}, resolveError
		}
		configuration.Steps[stepIndex] = resolvedStep
	}

	return configuration, nil
}

func buildToolLookup(tools []NamedToolConfiguration) (map[string]StepConfiguration, error) {
	lookup := make(map[string]StepConfiguration, len(tools))
	for toolIndex := range tools {
		trimmedName := strings.TrimSpace(tools[toolIndex].Name)
		if len(trimmedName) == 0 {
			return nil, errors.New(configurationToolNameRequiredMessageConstant)
		}
		if _, exists := lookup[trimmedName]; exists {
			return nil, fmt.Errorf(configurationDuplicateToolNameTemplateConstant, trimmedName)
		}
		errand := ErrandType(strings.TrimSpace(string(tools[toolIndex].Errand)))
		if len(errand) == 0 {
			return nil, fmt.Errorf(configurationToolErrandMissingTemplateConstant, trimmedName)
		}
		lookup[trimmedName] = StepConfiguration{Errand: errand, Options: tools[toolIndex].Options}
	}
	return lookup, nil
}

// resolveStep merges a referenced tool into the step. Step options override tool options.
func resolveStep(stepNumber int, step StepConfiguration, toolLookup map[string]StepConfiguration) (StepConfiguration, error) {
	resolved := StepConfiguration{Errand: ErrandType(strings.TrimSpace(string(step.Errand))), Options: map[string]any{}}

	toolName, referencesTool := toolReference(step.Options)
	if referencesTool {
		tool, toolExists := toolLookup[toolName]
		if !toolExists {
			return StepConfiguration{}, fmt.Errorf(configurationUnknownToolTemplateConstant, stepNumber, toolName)
		}
		if len(resolved.Errand) == 0 {
			resolved.Errand = tool.Errand
		}
		for optionKey, optionValue := range tool.Options {
			resolved.Options[optionKey] = optionValue
		}
	}

	for optionKey, optionValue := range step.Options {
		if strings.EqualFold(strings.TrimSpace(optionKey), optionToolReferenceKeyConstant) {
			continue
		}
		resolved.Options[optionKey] = optionValue
	}

	if len(resolved.Errand) == 0 {
		return StepConfiguration{}, fmt.Errorf(configurationErrandMissingTemplateConstant, stepNumber)
	}
	return resolved, nil
}

func toolReference(options map[string]any) (string, bool) {
	for rawKey, rawValue := range options {
		if !strings.EqualFold(strings.TrimSpace(rawKey), optionToolReferenceKeyConstant) {
			continue
		}
		name, isString := rawValue.(string)
		if !isString {
			return fmt.Sprint(rawValue), true
		}
		return strings.TrimSpace(name), true
	}
	return "", false
}
