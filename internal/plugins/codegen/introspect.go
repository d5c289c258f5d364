package codegen

import (
	"context"
	"sort"
	"strings"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"gorm.io/gorm"
)

const msgTableNotFound = "数据库表不存在"

// inspector 通过 gorm Migrator 读取表结构，三种方言共用
type inspector struct {
	db *gorm.DB
}

// Tables 按名称返回当前库的全部表，跳过 sqlite 内部表
func (in inspector) Tables(ctx context.Context) ([]TableInfo, error) {
	m := in.db.WithContext(ctx).Migrator()
	names, err := m.GetTables()
	if err != nil {
		return nil, apperr.Database(err)
	}
	schema := m.CurrentDatabase()
	sort.Strings(names)

	out := make([]TableInfo, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, "sqlite_") {
			continue
		}
		info := TableInfo{TableName: name, TableSchema: schema}
		// sqlite 不支持表注释，忽略错误
		if tt, err := m.TableType(name); err == nil && tt != nil {
			if c, ok := tt.Comment(); ok && c != "" {
				info.TableComment = &c
			}
		}
		out = append(out, info)
	}
	return out, nil
}

// Table 返回单张表，不存在时为 NotFound
func (in inspector) Table(ctx context.Context, name string) (*TableInfo, error) {
	tables, err := in.Tables(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tables {
		if tables[i].TableName == name {
			return &tables[i], nil
		}
	}
	return nil, apperr.NotFound(msgTableNotFound)
}

// Columns 按定义顺序返回表的列
func (in inspector) Columns(ctx context.Context, table string) ([]ColumnInfo, error) {
	m := in.db.WithContext(ctx).Migrator()
	if !m.HasTable(table) {
		return nil, apperr.NotFound(msgTableNotFound)
	}
	types, err := m.ColumnTypes(table)
	if err != nil {
		return nil, apperr.Database(err)
	}
	out := make([]ColumnInfo, 0, len(types))
	for _, ct := range types {
		col := ColumnInfo{ColumnName: ct.Name(), DataType: baseType(ct.DatabaseTypeName())}
		col.ColumnType = col.DataType
		if full, ok := ct.ColumnType(); ok && full != "" {
			col.ColumnType = strings.ToLower(full)
		}
		if n, ok := ct.Length(); ok && n > 0 && n < 1<<16 {
			col.Length = int(n)
		}
		if null, ok := ct.Nullable(); ok {
			col.IsNullable = null
		}
		if pk, ok := ct.PrimaryKey(); ok {
			col.IsPK = pk
		}
		if c, ok := ct.Comment(); ok && c != "" {
			col.ColumnComment = &c
		}
		out = append(out, col)
	}
	return out, nil
}

// baseType 把 "VARCHAR(64)"、"int unsigned" 之类归一为 "varchar"、"int"
func baseType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	t = strings.TrimSuffix(t, " unsigned")
	return strings.TrimSpace(t)
}

// goType 把数据库类型映射为 Go 类型，可空列为指针
func goType(dbType string, nullable bool) string {
	var t string
	switch baseType(dbType) {
	case "bigint", "integer", "int8", "serial8", "bigserial":
		t = "int64"
	case "int", "int4", "int2", "smallint", "tinyint", "mediumint", "serial":
		t = "int"
	case "decimal", "numeric", "float", "double", "real", "float4", "float8", "double precision":
		t = "float64"
	case "bool", "boolean":
		t = "bool"
	case "datetime", "timestamp", "timestamptz", "timestamp with time zone", "timestamp without time zone", "date", "time":
		t = "time.Time"
	default:
		t = "string"
	}
	if nullable {
		return "*" + t
	}
	return t
}

// tsType 把数据库类型映射为前端类型
func tsType(dbType string) string {
	switch strings.TrimPrefix(goType(dbType, false), "*") {
	case "int", "int64", "float64":
		return "number"
	case "bool":
		return "boolean"
	default:
		return "string"
	}
}

var initialisms = map[string]string{"id": "ID", "ip": "IP", "url": "URL", "uuid": "UUID", "api": "API", "json": "JSON", "ts": "TS"}

// pascal 把 snake_case 转为导出的 Go 标识符
func pascal(s string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || r == ' ' }) {
		if up, ok := initialisms[strings.ToLower(part)]; ok {
			b.WriteString(up)
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	out := b.String()
	if out == "" || (out[0] >= '0' && out[0] <= '9') {
		out = "X" + out
	}
	return out
}
