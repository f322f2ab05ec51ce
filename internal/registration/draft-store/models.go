// internal/registration/draft-store/models.go
package draftstore

import (
	"context"

	"member-registration/internal/common/logger"
	"member-registration/internal/common/validation"
)

// Backend stores opaque draft documents by key.
type Backend interface {
	// Get returns found=false, err=nil when the key does not exist.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type ServiceDependencies struct {
	Logger  logger.Logger
	Backend Backend
}

// draftSchema accepts an object whose keys are step numbers and whose values are objects.
var draftSchema = validation.MustCompile(`{
  "$schema": "http://json-schema.org/draft-04/schema#",
  "type": "object",
  "patternProperties": {
    "^[1-3]$": {"type": "object"}
  },
  "additionalProperties": false
}`)

// Outcomes recorded on registration_draft_operations_total.
const (
	outcomeOK       = "ok"
	outcomeAbsent   = "absent"
	outcomeCorrupt  = "corrupt"
	outcomeDegraded = "degraded"
)
