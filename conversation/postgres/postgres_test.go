package postgres

import (
	"strings"
	"testing"
)

func TestMigration(t *testing.T) {
	t.Run("defaults the table name", func(t *testing.T) {
		sql := Migration("")
		if !strings.Contains(sql, "CREATE TABLE IF NOT EXISTS conversation_turns") {
			t.Errorf("unexpected migration:\n%s", sql)
		}
	})

	t.Run("uses the custom table name", func(t *testing.T) {
		sql := Migration("chat_log")
		if !strings.Contains(sql, "CREATE TABLE IF NOT EXISTS chat_log") {
			t.Errorf("unexpected migration:\n%s", sql)
		}
		if strings.Contains(sql, "conversation_turns") {
			t.Errorf("default name leaked into custom migration:\n%s", sql)
		}
	})

	t.Run("indexes the paging sort order", func(t *testing.T) {
		sql := Migration("")
		if !strings.Contains(sql, "(owner_key, created_at DESC, id ASC)") {
			t.Errorf("missing paging index:\n%s", sql)
		}
	})
}

func TestWithTableName(t *testing.T) {
	s := New(nil, WithTableName("chat_log"))
	if s.tableName != "chat_log" {
		t.Errorf("table name = %q", s.tableName)
	}
	if New(nil).tableName != "conversation_turns" {
		t.Error("expected default table name")
	}
}
