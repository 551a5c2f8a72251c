package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrUnsupportedDialect is returned for databases other than postgres and sqlite.
var ErrUnsupportedDialect = errors.New("unsupported database type")

// TableInfo represents table metadata
type TableInfo struct {
	Name     string `json:"name"`
	RowCount int64  `json:"row_count"`
}

// ColumnInfo represents column metadata
type ColumnInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Nullable     bool   `json:"nullable"`
	PrimaryKey   bool   `json:"primary_key"`
	DefaultValue string `json:"default_value,omitempty"`
}

// ForeignKeyInfo represents foreign key constraint metadata
type ForeignKeyInfo struct {
	Name             string `json:"name"`
	Column           string `json:"column"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
	OnUpdate         string `json:"on_update,omitempty"`
	OnDelete         string `json:"on_delete,omitempty"`
}

// QuoteIdentifier quotes a database identifier based on the database type
func QuoteIdentifier(name, dbType string) string {
	switch dbType {
	case "postgres", "sqlite":
		return fmt.Sprintf(`"%s"`, strings.ReplaceAll(name, `"`, `""`))
	default:
		return fmt.Sprintf("`%s`", strings.ReplaceAll(name, "`", "``"))
	}
}

// IsValidTableName validates table name to prevent SQL injection
func IsValidTableName(name string) bool {
	if name == "" || len(name) > 64 {
		return false
	}
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}

// ListTables returns user tables with their row counts, sorted by name.
func ListTables(db *gorm.DB) ([]TableInfo, error) {
	var names []string
	dbType := db.Dialector.Name()
	switch dbType {
	case "postgres":
		if err := db.Raw(`
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = 'public'
			ORDER BY table_name
		`).Scan(&names).Error; err != nil {
			return nil, errors.Wrap(err, "list tables")
		}
	case "sqlite":
		if err := db.Raw(`
			SELECT name
			FROM sqlite_master
			WHERE type='table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name
		`).Scan(&names).Error; err != nil {
			return nil, errors.Wrap(err, "list tables")
		}
	default:
		return nil, errors.Wrap(ErrUnsupportedDialect, dbType)
	}

	tables := make([]TableInfo, 0, len(names))
	for _, name := range names {
		count, err := RowCount(db, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, TableInfo{Name: name, RowCount: count})
	}
	return tables, nil
}

// RowCount counts the rows of table.
func RowCount(db *gorm.DB, table string) (int64, error) {
	if !IsValidTableName(table) {
		return 0, errors.Errorf("invalid table name %q", table)
	}
	var count int64
	err := db.Raw(fmt.Sprintf("SELECT COUNT(*) FROM %s", QuoteIdentifier(table, db.Dialector.Name()))).Scan(&count).Error
	return count, errors.Wrapf(err, "count %s", table)
}

// TableColumns returns the columns of table in ordinal order.
func TableColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	if !IsValidTableName(table) {
		return nil, errors.Errorf("invalid table name %q", table)
	}
	var columns []ColumnInfo
	dbType := db.Dialector.Name()
	switch dbType {
	case "postgres":
		type pgColumn struct {
			ColumnName   string `gorm:"column:column_name"`
			DataType     string `gorm:"column:data_type"`
			Nullable     bool   `gorm:"column:nullable"`
			DefaultValue string `gorm:"column:default_value"`
			PrimaryKey   bool   `gorm:"column:primary_key"`
		}
		var rows []pgColumn
		if err := db.Raw(`
			SELECT
				c.column_name,
				c.data_type,
				c.is_nullable = 'YES' as nullable,
				COALESCE(c.column_default, '') as default_value,
				COALESCE(
					(SELECT true FROM information_schema.table_constraints tc
					 JOIN information_schema.key_column_usage kcu
					 ON tc.constraint_name = kcu.constraint_name
					 WHERE tc.table_name = c.table_name
					 AND kcu.column_name = c.column_name
					 AND tc.constraint_type = 'PRIMARY KEY'
					 LIMIT 1), false
				) as primary_key
			FROM information_schema.columns c
			WHERE c.table_name = ?
			ORDER BY c.ordinal_position
		`, table).Scan(&rows).Error; err != nil {
			return nil, errors.Wrapf(err, "describe %s", table)
		}
		for _, r := range rows {
			columns = append(columns, ColumnInfo{
				Name:         r.ColumnName,
				Type:         r.DataType,
				Nullable:     r.Nullable,
				PrimaryKey:   r.PrimaryKey,
				DefaultValue: r.DefaultValue,
			})
		}

	case "sqlite":
		type sqliteColumn struct {
			Cid       int     `gorm:"column:cid"`
			Name      string  `gorm:"column:name"`
			Type      string  `gorm:"column:type"`
			NotNull   int     `gorm:"column:notnull"`
			DfltValue *string `gorm:"column:dflt_value"`
			Pk        int     `gorm:"column:pk"`
		}
		var rows []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info(%s)", QuoteIdentifier(table, dbType))).Scan(&rows).Error; err != nil {
			return nil, errors.Wrapf(err, "describe %s", table)
		}
		for _, r := range rows {
			col := ColumnInfo{
				Name:       r.Name,
				Type:       r.Type,
				Nullable:   r.NotNull == 0,
				PrimaryKey: r.Pk > 0,
			}
			if r.DfltValue != nil {
				col.DefaultValue = *r.DfltValue
			}
			columns = append(columns, col)
		}

	default:
		return nil, errors.Wrap(ErrUnsupportedDialect, dbType)
	}
	return columns, nil
}

// ForeignKeys returns all foreign key constraints declared on table.
func ForeignKeys(db *gorm.DB, table string) ([]ForeignKeyInfo, error) {
	if !IsValidTableName(table) {
		return nil, errors.Errorf("invalid table name %q", table)
	}
	var foreignKeys []ForeignKeyInfo
	dbType := db.Dialector.Name()
	switch dbType {
	case "postgres":
		type pgFK struct {
			ConstraintName string `gorm:"column:constraint_name"`
			ColumnName     string `gorm:"column:column_name"`
			ForeignTable   string `gorm:"column:foreign_table_name"`
			ForeignColumn  string `gorm:"column:foreign_column_name"`
			UpdateRule     string `gorm:"column:update_rule"`
			DeleteRule     string `gorm:"column:delete_rule"`
		}
		var pgFKs []pgFK
		if err := db.Raw(`
			SELECT
				tc.constraint_name,
				kcu.column_name,
				ccu.table_name AS foreign_table_name,
				ccu.column_name AS foreign_column_name,
				rc.update_rule,
				rc.delete_rule
			FROM information_schema.table_constraints AS tc
			JOIN information_schema.key_column_usage AS kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			JOIN information_schema.constraint_column_usage AS ccu
				ON ccu.constraint_name = tc.constraint_name
				AND ccu.table_schema = tc.table_schema
			JOIN information_schema.referential_constraints AS rc
				ON tc.constraint_name = rc.constraint_name
				AND tc.table_schema = rc.constraint_schema
			WHERE tc.constraint_type = 'FOREIGN KEY'
				AND tc.table_name = ?
			ORDER BY kcu.column_name
		`, table).Scan(&pgFKs).Error; err != nil {
			return nil, errors.Wrapf(err, "foreign keys of %s", table)
		}
		for _, fk := range pgFKs {
			foreignKeys = append(foreignKeys, ForeignKeyInfo{
				Name:             fk.ConstraintName,
				Column:           fk.ColumnName,
				ReferencedTable:  fk.ForeignTable,
				ReferencedColumn: fk.ForeignColumn,
				OnUpdate:         fk.UpdateRule,
				OnDelete:         fk.DeleteRule,
			})
		}

	case "sqlite":
		type sqliteFK struct {
			ID       int    `gorm:"column:id"`
			Seq      int    `gorm:"column:seq"`
			Table    string `gorm:"column:table"`
			From     string `gorm:"column:from"`
			To       string `gorm:"column:to"`
			OnUpdate string `gorm:"column:on_update"`
			OnDelete string `gorm:"column:on_delete"`
		}
		var sqliteFKs []sqliteFK
		if err := db.Raw(fmt.Sprintf(`PRAGMA foreign_key_list(%s)`, QuoteIdentifier(table, dbType))).Scan(&sqliteFKs).Error; err != nil {
			return nil, errors.Wrapf(err, "foreign keys of %s", table)
		}
		for _, fk := range sqliteFKs {
			foreignKeys = append(foreignKeys, ForeignKeyInfo{
				Name:             fmt.Sprintf("fk_%s_%d", table, fk.ID),
				Column:           fk.From,
				ReferencedTable:  fk.Table,
				ReferencedColumn: fk.To,
				OnUpdate:         fk.OnUpdate,
				OnDelete:         fk.OnDelete,
			})
		}

	default:
		return nil, errors.Wrap(ErrUnsupportedDialect, dbType)
	}
	sort.SliceStable(foreignKeys, func(i, j int) bool { return foreignKeys[i].Column < foreignKeys[j].Column })
	return foreignKeys, nil
}
