package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_lms_tables.sql
var createLMSTablesSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createLMSTablesSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`
				DROP TABLE IF EXISTS assignment_submissions;
				DROP TABLE IF EXISTS quiz_submissions;
				DROP TABLE IF EXISTS assignments;
				DROP TABLE IF EXISTS quizzes;
				DROP TABLE IF EXISTS enrollments;
				DROP TABLE IF EXISTS courses;
				DROP TABLE IF EXISTS students;
			`)
			return err
		},
	)
}
