package api

import (
	_ "embed"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed api.yaml
var rawSpec []byte

var loadSpec = sync.OnceValues(func() (*openapi3.T, error) {
	return openapi3.NewLoader().LoadFromData(rawSpec)
})

// GetSwagger returns the parsed API description. The document is shared, so
// callers must not modify it.
func GetSwagger() (*openapi3.T, error) {
	return loadSpec()
}
