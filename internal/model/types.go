package model

import "fmt"

// SemanticType is the meaning of a schema field. Each value is bound to
// exactly one fake-value generator.
type SemanticType string

const (
	TypeID          SemanticType = "ID"
	TypeName        SemanticType = "NAME"
	TypeAddress     SemanticType = "ADDRESS"
	TypePhoneNumber SemanticType = "PHONE_NUMBER"
	TypeAge         SemanticType = "AGE"
	TypeDate        SemanticType = "DATE"
	TypeWord        SemanticType = "WORD"
)

var semanticTypes = [...]SemanticType{
	TypeID,
	TypeName,
	TypeAddress,
	TypePhoneNumber,
	TypeAge,
	TypeDate,
	TypeWord,
}

// SemanticTypes returns the registry of semantic types in declaration order.
// The returned slice is a copy.
func SemanticTypes() []SemanticType {
	out := make([]SemanticType, len(semanticTypes))
	copy(out, semanticTypes[:])
	return out
}

// String returns the string representation of the semantic type.
func (t SemanticType) String() string {
	return string(t)
}

// IsValid checks whether the semantic type is a registered value.
func (t SemanticType) IsValid() bool {
	for _, v := range semanticTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ParseSemanticType converts s to a SemanticType. Matching is exact.
func ParseSemanticType(s string) (SemanticType, error) {
	t := SemanticType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown semantic type %q", s)
	}
	return t, nil
}

// HTTPMethod is a request method an endpoint can be bound to.
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodPatch  HTTPMethod = "PATCH"
	MethodDelete HTTPMethod = "DELETE"
)

var httpMethods = [...]HTTPMethod{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodPatch,
	MethodDelete,
}

// HTTPMethods returns the registry of supported methods in declaration order.
// The returned slice is a copy.
func HTTPMethods() []HTTPMethod {
	out := make([]HTTPMethod, len(httpMethods))
	copy(out, httpMethods[:])
	return out
}

// String returns the string representation of the method.
func (m HTTPMethod) String() string {
	return string(m)
}

// IsValid checks whether the method is a registered value.
func (m HTTPMethod) IsValid() bool {
	for _, v := range httpMethods {
		if v == m {
			return true
		}
	}
	return false
}

// ParseHTTPMethod converts s to an HTTPMethod. Matching is exact and
// case-sensitive: "get" is rejected.
func ParseHTTPMethod(s string) (HTTPMethod, error) {
	m := HTTPMethod(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unsupported method %q", s)
	}
	return m, nil
}
