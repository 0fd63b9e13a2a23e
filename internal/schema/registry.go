// Package schema validates chaincode event payloads against a versioned,
// embedded schema set. Validation is advisory on the projector path: a
// mismatch flags deploy drift to investigate, it does not halt the stream.
package schema

import (
	"embed"
	"fmt"
	"strings"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// eventAliases maps legacy event names onto their canonical schema. The
// chaincode used to emit InternalTransferEvent for the same logical transfer.
var eventAliases = map[string]string{
	constant.EventInternalTransfer: constant.EventTransferCompleted,
}

// Result is the outcome of validating one envelope.
type Result struct {
	OK           bool
	UnknownEvent bool
	Errors       []string
}

// Registry holds the compiled schema set. Loaded once at startup, read-only
// afterwards.
type Registry struct {
	strict  bool
	schemas map[string]*gojsonschema.Schema
}

// NewRegistry compiles every embedded schema. Strict mode turns validation
// failures into handler errors instead of advisories.
func NewRegistry(strict bool) (*Registry, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, err
	}

	schemas := make(map[string]*gojsonschema.Schema, len(entries))

	for _, entry := range entries {
		raw, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return nil, err
		}

		compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", entry.Name(), err)
		}

		// File names follow <EventName>-<version>.json.
		key := strings.TrimSuffix(entry.Name(), ".json")
		key = strings.Replace(key, "-", "@", 1)

		schemas[key] = compiled
	}

	return &Registry{
		strict:  strict,
		schemas: schemas,
	}, nil
}

// Strict reports whether validation failures should fail the handler.
func (r *Registry) Strict() bool {
	return r.strict
}

// Validate checks the envelope payload against the registered schema for
// (eventName, eventVersion). Unknown events pass with the UnknownEvent signal
// set, so new ledger events never block the projector.
func (r *Registry) Validate(envelope mmodel.EventEnvelope) Result {
	name := envelope.EventName
	if canonical, ok := eventAliases[name]; ok {
		name = canonical
	}

	version := envelope.EventVersion
	if version == "" {
		version = constant.DefaultEventVersion
	}

	compiled, ok := r.schemas[name+"@"+version]
	if !ok {
		return Result{OK: true, UnknownEvent: true}
	}

	result, err := compiled.Validate(gojsonschema.NewGoLoader(envelope.Payload))
	if err != nil {
		return Result{Errors: []string{err.Error()}}
	}

	if result.Valid() {
		return Result{OK: true}
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, resultError := range result.Errors() {
		errs = append(errs, resultError.String())
	}

	return Result{Errors: errs}
}
