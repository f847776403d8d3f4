package service

import (
	"github.com/google/uuid"
	"github.com/limbo/goaltrackr/pkg/entity"
)

type ownedRecord interface {
	*entity.Goal | *entity.Task | *entity.Journal
	Owner() uuid.UUID
}

// assertOwned hands the record back only to its owner. Anyone else gets
// notFound, the same answer as for an id that does not exist.
func assertOwned[R ownedRecord](record R, callerID uuid.UUID, notFound error) (R, error) {
	if callerID == uuid.Nil || record.Owner() != callerID {
		var zero R
		return zero, notFound
	}
	return record, nil
}
