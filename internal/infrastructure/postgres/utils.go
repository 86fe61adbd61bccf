package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isLockTimeout verifica si la sentencia se canceló esperando un bloqueo (55P03, lock_timeout).
func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03" // lock_not_available
}

// violatedConstraint devuelve el nombre del constraint de un error de PostgreSQL.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern arma el patrón ILIKE '%term%' tratando % y _ del usuario como literales (ESCAPE '\').
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// sqlDate formatea un día para parámetros DATE sin depender de la zona horaria.
func sqlDate(t time.Time) string {
	return t.Format("2006-01-02")
}
