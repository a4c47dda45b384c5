package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Chawketodeh/eventy-events-platform/internal/apperror"
)

// likeEscape is appended to every LIKE clause built with containsPattern.
const likeEscape = ` ESCAPE '\'`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-cased LIKE pattern matching s literally
// anywhere in the column.
func containsPattern(s string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(s)) + "%"
}

func notFound(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(resource, id)
	}
	return err
}

// updateExisting writes every column of model by primary key. Unlike Save it
// never inserts, so a row deleted concurrently stays deleted.
func updateExisting(db *gorm.DB, model interface{}, resource, id string) error {
	result := db.Model(model).Select("*").Omit(clause.Associations).Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}

func organizerColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "clerk_id", "first_name", "last_name")
}

func categoryColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}
