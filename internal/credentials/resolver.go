package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	environmentLookupNilErrorMessageConstant = "environment lookup function not configured"
	fileReaderNilErrorMessageConstant        = "file reader function not configured"
	environmentSecretMissingTemplateConstant = "environment variable %s is not set"
	fileReadErrorTemplateConstant            = "unable to read secret file %s: %w"
	fileSecretEmptyErrorTemplateConstant     = "secret file %s is empty"
	requiredSecretErrorTemplateConstant      = "%s: %w"
	homeDirectoryPrefixConstant              = "~/"
)

// ErrSecretUnavailable marks a reference that resolved to nothing.
var ErrSecretUnavailable = errors.New("secret unavailable")

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// Resolver retrieves secrets from configured references.
type Resolver struct {
	environmentLookup     EnvironmentLookup
	fileReader            FileReader
	homeDirectoryProvider HomeDirectoryProvider
}

// NewResolver creates a resolver with optional dependency overrides.
func NewResolver(environmentLookup EnvironmentLookup, fileReader FileReader) *Resolver {
	resolvedEnvironmentLookup := environmentLookup
	if resolvedEnvironmentLookup == nil {
		resolvedEnvironmentLookup = os.LookupEnv
	}

	resolvedFileReader := fileReader
	if resolvedFileReader == nil {
		resolvedFileReader = os.ReadFile
	}

	return &Resolver{
		environmentLookup:     resolvedEnvironmentLookup,
		fileReader:            resolvedFileReader,
		homeDirectoryProvider: os.UserHomeDir,
	}
}

// Resolve returns the secret the reference points at.
func (resolver *Resolver) Resolve(reference Reference) (string, error) {
	switch reference.Type {
	case ReferenceTypeEnvironment:
		if resolver.environmentLookup == nil {
			return "", errors.New(environmentLookupNilErrorMessageConstant)
		}
		value, found := resolver.environmentLookup(reference.Location)
		trimmedValue := strings.TrimSpace(value)
		if !found || len(trimmedValue) == 0 {
			return "", fmt.Errorf(environmentSecretMissingTemplateConstant+": %w", reference.Location, ErrSecretUnavailable)
		}
		return trimmedValue, nil
	case ReferenceTypeFile:
		if resolver.fileReader == nil {
			return "", errors.New(fileReaderNilErrorMessageConstant)
		}
		filePath := resolver.expandHomeDirectory(reference.Location)
		contents, readError := resolver.fileReader(filePath)
		if readError != nil {
			return "", fmt.Errorf(fileReadErrorTemplateConstant, filePath, readError)
		}
		trimmedValue := strings.TrimSpace(string(contents))
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(fileSecretEmptyErrorTemplateConstant+": %w", filePath, ErrSecretUnavailable)
		}
		return trimmedValue, nil
	case ReferenceTypeLiteral:
		return reference.Location, nil
	default:
		return "", fmt.Errorf(unsupportedReferenceTypeTemplateConstant, reference.Type)
	}
}

// ResolveValue parses and resolves a textual reference.
func (resolver *Resolver) ResolveValue(referenceValue string) (string, error) {
	reference, parseError := ParseReference(referenceValue)
	if parseError != nil {
		return "", parseError
	}
	return resolver.Resolve(reference)
}

// Require resolves a textual reference that must be present, labelling failures with the setting name.
func (resolver *Resolver) Require(settingName string, referenceValue string) (string, error) {
	value, resolveError := resolver.ResolveValue(referenceValue)
	if resolveError != nil {
		return "", fmt.Errorf(requiredSecretErrorTemplateConstant, settingName, resolveError)
	}
	return value, nil
}

// Optional resolves a textual reference and reports whether a value was found.
func (resolver *Resolver) Optional(referenceValue string) (string, bool) {
	value, resolveError := resolver.ResolveValue(referenceValue)
	if resolveError != nil {
		return "", false
	}
	return value, true
}

func (resolver *Resolver) expandHomeDirectory(filePath string) string {
	if !strings.HasPrefix(filePath, homeDirectoryPrefixConstant) || resolver.homeDirectoryProvider == nil {
		return filePath
	}
	homeDirectory, homeError := resolver.homeDirectoryProvider()
	if homeError != nil || len(homeDirectory) == 0 {
		return filePath
	}
	return filepath.Join(homeDirectory, strings.TrimPrefix(filePath, homeDirectoryPrefixConstant))
}
