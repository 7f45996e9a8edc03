package credentials

import (
	"errors"
	"fmt"
	"strings"
)

const (
	referenceSeparatorConstant               = ":"
	environmentReferenceTypeValueConstant    = "env"
	fileReferenceTypeValueConstant           = "file"
	literalReferenceTypeValueConstant        = "literal"
	referenceMissingErrorMessageConstant     = "secret reference must be provided"
	environmentNameMissingMessageConstant    = "environment variable name must be provided"
	filePathMissingErrorMessageConstant      = "secret file path must be provided"
	literalValueMissingErrorMessageConstant  = "literal secret value must be provided"
	unsupportedReferenceTypeTemplateConstant = "unsupported secret reference type %q"
)

// ReferenceType enumerates the supported secret retrieval mechanisms.
type ReferenceType string

// Reference type enumerations.
const (
	ReferenceTypeEnvironment ReferenceType = ReferenceType(environmentReferenceTypeValueConstant)
	ReferenceTypeFile        ReferenceType = ReferenceType(fileReferenceTypeValueConstant)
	ReferenceTypeLiteral     ReferenceType = ReferenceType(literalReferenceTypeValueConstant)
)

// ErrReferenceMissing indicates an empty secret reference.
var ErrReferenceMissing = errors.New(referenceMissingErrorMessageConstant)

// Reference specifies how to locate a secret.
type Reference struct {
	Type     ReferenceType
	Location string
}

// String renders the reference without revealing literal values.
func (reference Reference) String() string {
	if reference.Type == ReferenceTypeLiteral {
		return literalReferenceTypeValueConstant + referenceSeparatorConstant + "***"
	}
	return string(reference.Type) + referenceSeparatorConstant + reference.Location
}

// ParseReference interprets textual secret reference declarations.
func ParseReference(referenceValue string) (Reference, error) {
	trimmedValue := strings.TrimSpace(referenceValue)
	if len(trimmedValue) == 0 {
		return Reference{}, ErrReferenceMissing
	}

	components := strings.SplitN(trimmedValue, referenceSeparatorConstant, 2)
	if len(components) == 1 {
		return Reference{Type: ReferenceTypeEnvironment, Location: trimmedValue}, nil
	}

	referenceType := strings.ToLower(strings.TrimSpace(components[0]))
	location := strings.TrimSpace(components[1])

	switch referenceType {
	case environmentReferenceTypeValueConstant:
		if len(location) == 0 {
			return Reference{}, errors.New(environmentNameMissingMessageConstant)
		}
		return Reference{Type: ReferenceTypeEnvironment, Location: location}, nil
	case fileReferenceTypeValueConstant:
		if len(location) == 0 {
			return Reference{}, errors.New(filePathMissingErrorMessageConstant)
		}
		return Reference{Type: ReferenceTypeFile, Location: location}, nil
	case literalReferenceTypeValueConstant:
		if len(location) == 0 {
			return Reference{}, errors.New(literalValueMissingErrorMessageConstant)
		}
		return Reference{Type: ReferenceTypeLiteral, Location: location}, nil
	default:
		return Reference{}, fmt.Errorf(unsupportedReferenceTypeTemplateConstant, referenceType)
	}
}
