package models

import (
	"github.com/google/uuid"
)

// CurrentSchemaVersion is stamped on every record written by this service.
// Rows with a lower version are default-filled when read.
const CurrentSchemaVersion = 1

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func stampVersion(v *int) {
	if *v < CurrentSchemaVersion {
		*v = CurrentSchemaVersion
	}
}
