// Package export renders audit ledger snapshots into downloadable files.
package export

import (
	"bytes"
	"strings"
	"time"

	"kvitto/internal/domain"
)

// auditHeader is the fixed column order of the audit export.
var auditHeader = []string{
	"Id", "TimestampUtc", "ActorUserId", "ActorEmail",
	"Action", "EntityType", "EntityId", "Description",
}

const csvTimeLayout = "2006-01-02 15:04:05"

// AuditCSV renders audit entries as semicolon-delimited CSV. Every field is
// double-quoted, with embedded quotes doubled, regardless of content. The
// entries are written in the order given.
func AuditCSV(entries []domain.AuditLogEntry) []byte {
	var buf bytes.Buffer
	writeRecord(&buf, auditHeader)
	for _, e := range entries {
		writeRecord(&buf, auditRecord(e))
	}
	return buf.Bytes()
}

func auditRecord(e domain.AuditLogEntry) []string {
	return []string{
		e.ID.String(),
		e.TimestampUTC.UTC().Format(csvTimeLayout),
		e.ActorUserID.String(),
		deref(e.ActorEmail),
		e.Action,
		e.EntityType,
		e.EntityID,
		deref(e.Description),
	}
}

// writeRecord force-quotes every field. encoding/csv only quotes when it has
// to, which would change the boundary format consumers already parse.
func writeRecord(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(';')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString("\r\n")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FileName returns a timestamped export file name such as
// "audit_export_20260115_093045.csv".
func FileName(prefix, ext string, at time.Time) string {
	return prefix + "_" + at.UTC().Format("20060102_150405") + "." + ext
}
