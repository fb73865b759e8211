package snapshot

import (
	"fmt"
	"strings"
)

// maintenanceDB is the database used for server-level statements such as
// DROP DATABASE; it must not be one of the managed databases.
const maintenanceDB = "postgres"

const dropAllTablesSQL = `DO $$
DECLARE
    r RECORD;
BEGIN
    FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
        EXECUTE 'DROP TABLE IF EXISTS public.' || quote_ident(r.tablename) || ' CASCADE';
    END LOOP;
END $$;`

func pgEnv(password string) []string {
	if password == "" {
		return nil
	}
	return []string{fmt.Sprintf("PGPASSWORD=%s", password)}
}

func readyCmd(user string) []string {
	return []string{"pg_isready", "-U", user}
}

func dumpToFileCmd(user, database, path string) []string {
	return []string{
		"pg_dump",
		"-U", user,
		"-d", database,
		"--format", "custom",
		"--no-owner",
		"--no-acl",
		"--file", path,
	}
}

func dumpToStdoutCmd(user, database string) []string {
	return []string{
		"pg_dump",
		"-U", user,
		"-d", database,
		"--format", "custom",
		"--no-owner",
		"--no-acl",
	}
}

func restoreFromFileCmd(user, database, path string) []string {
	return []string{
		"pg_restore",
		"-U", user,
		"-d", database,
		"--no-owner",
		"--no-acl",
		path,
	}
}

func restoreFromStdinCmd(user, database string) []string {
	return []string{
		"pg_restore",
		"-U", user,
		"-d", database,
		"--no-owner",
		"--no-acl",
	}
}

func psqlCmd(user, database, sql string) []string {
	return []string{
		"psql",
		"-U", user,
		"-d", database,
		"-v", "ON_ERROR_STOP=1",
		"-q",
		"-c", sql,
	}
}

func dropTablesCmd(user, database string) []string {
	return psqlCmd(user, database, dropAllTablesSQL)
}

// resetConstraintsCmd re-enables constraint and trigger checks after a
// restore that may have toggled session_replication_role.
func resetConstraintsCmd(user, database string) []string {
	return psqlCmd(user, database, "SET session_replication_role = DEFAULT;")
}

func dropDatabaseCmd(user, database string) []string {
	sql := fmt.Sprintf("DROP DATABASE IF EXISTS %s WITH (FORCE);", quoteIdent(database))
	return psqlCmd(user, maintenanceDB, sql)
}

func createDatabaseCmd(user, database string) []string {
	sql := fmt.Sprintf("CREATE DATABASE %s;", quoteIdent(database))
	return psqlCmd(user, maintenanceDB, sql)
}

func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
