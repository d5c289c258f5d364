package codegen

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"go/token"
	"path"
	"strings"
	"text/template"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
)

// modulePath 是生成代码引用的模块根路径
const modulePath = "github.com/eginner01/rFBA-sub002"

const defaultAuthor = "fba"

//go:embed templates/*.go.tmpl
var templateFS embed.FS

// templateNames 是全部模板，顺序即生成文件的顺序
var templateNames = []string{"model", "schema", "service", "handler", "plugin"}

var templates = template.Must(template.New("codegen").ParseFS(templateFS, "templates/*.go.tmpl"))

// stamp 列由 store.Mutable 提供
var stampColumns = map[string]bool{"created_time": true, "updated_time": true}

// 与生成代码中的方法或内嵌字段同名的字段需要改名
var reservedFields = map[string]bool{"ID": true, "TableName": true, "Mutable": true}

type genField struct {
	Name      string
	Column    string
	GoType    string
	QueryType string
	GormTag   string
	Comment   string
	Like      bool
	Validate  string
	Msg       string
}

type genData struct {
	Module        string
	Package       string
	Class         string
	Table         string
	Doc           string
	Author        string
	Route         string
	PermPrefix    string
	PKColumn      string
	Datetime      bool
	Fields        []genField
	Forms         []genField
	Queries       []genField
	ModelImports  []string
	SchemaImports []string
}

// checkPackage 校验模块名可作为 Go 包名
func checkPackage(name string) error {
	if !token.IsIdentifier(name) || token.IsKeyword(name) || strings.ToLower(name) != name {
		return apperr.Validation("模块名必须是小写的合法 Go 包名")
	}
	return nil
}

// clean 去掉会破坏字符串字面量或结构体标签的字符
func clean(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ", "\"", "", "`", "", "\\", "").Replace(s)
	return strings.TrimSpace(s)
}

func newGenData(b *Business, cols []Column, author string) (*genData, error) {
	pkg := b.module()
	if err := checkPackage(pkg); err != nil {
		return nil, err
	}
	if author == "" {
		author = defaultAuthor
	}
	d := &genData{
		Module:     modulePath,
		Package:    pkg,
		Class:      pascal(pkg),
		Table:      b.Table,
		Doc:        clean(b.DocComment),
		Author:     clean(author),
		Route:      strings.ReplaceAll(pkg, "_", "-"),
		PermPrefix: clean(b.AppName) + ":" + pkg,
		PKColumn:   "id",
		Datetime:   b.DefaultDatetimeColumn,
	}
	if b.ClassName != nil && token.IsIdentifier(*b.ClassName) {
		d.Class = *b.ClassName
	}
	for _, c := range cols {
		if c.IsPK {
			d.PKColumn = c.Name
			break
		}
	}

	var modelTime, schemaTime bool
	for _, c := range cols {
		if c.Name == d.PKColumn || (d.Datetime && stampColumns[c.Name]) {
			continue
		}
		f := genField{Name: pascal(c.Name), Column: c.Name, GoType: c.GoType}
		if reservedFields[f.Name] {
			f.Name += "Value"
		}
		if c.Comment != nil {
			f.Comment = clean(*c.Comment)
		}
		f.GormTag = gormTag(c)
		base := strings.TrimPrefix(c.GoType, "*")
		if base == "time.Time" {
			modelTime = true
		}
		d.Fields = append(d.Fields, f)

		if c.IsForm {
			f.Validate, f.Msg = formRule(c, f.Comment)
			d.Forms = append(d.Forms, f)
			if base == "time.Time" {
				schemaTime = true
			}
		}
		if c.IsQuery && base != "time.Time" {
			q := f
			q.Like = base == "string" && c.QueryType == "like"
			if q.Like {
				q.QueryType = "string"
			} else {
				q.QueryType = "*" + base
			}
			d.Queries = append(d.Queries, q)
		}
	}
	if modelTime {
		d.ModelImports = append(d.ModelImports, "time")
	}
	if d.Datetime {
		d.ModelImports = append(d.ModelImports, modulePath+"/internal/store")
	}
	if schemaTime {
		d.SchemaImports = append(d.SchemaImports, "time")
	}
	d.SchemaImports = append(d.SchemaImports, modulePath+"/internal/core/response")
	return d, nil
}

func gormTag(c Column) string {
	parts := []string{"column:" + c.Name}
	if c.Length > 0 && strings.TrimPrefix(c.GoType, "*") == "string" {
		parts = append(parts, fmt.Sprintf("size:%d", c.Length))
	}
	if !c.IsNullable {
		parts = append(parts, "not null")
	}
	return `gorm:"` + strings.Join(parts, ";") + `"`
}

// formRule 只为字符串列生成长度校验
func formRule(c Column, label string) (string, string) {
	if c.GoType != "string" && c.GoType != "*string" {
		return "", ""
	}
	if label == "" {
		label = c.Name
	}
	switch {
	case c.IsNullable && c.Length > 0:
		return fmt.Sprintf("omitempty,max=%d", c.Length), fmt.Sprintf("%s长度不能超过%d", label, c.Length)
	case c.IsNullable:
		return "", ""
	case c.Length > 0:
		return fmt.Sprintf("min=1,max=%d", c.Length), fmt.Sprintf("%s长度必须在1-%d之间", label, c.Length)
	default:
		return "min=1", label + "不能为空"
	}
}

// render 按全部模板生成代码，键为 <包名>/<模板>.go
func render(b *Business, cols []Column, author string) (map[string]string, error) {
	d, err := newGenData(b, cols, author)
	if err != nil {
		return nil, err
	}
	files := make(map[string]string, len(templateNames))
	for _, name := range templateNames {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, name+".go.tmpl", d); err != nil {
			return nil, apperr.OperationFailed(fmt.Sprintf("渲染模板 %s 失败: %v", name, err))
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, apperr.OperationFailed(fmt.Sprintf("格式化 %s 失败: %v", name, err))
		}
		files[path.Join(d.Package, name+".go")] = string(src)
	}
	return files, nil
}

// columnsFromTable 把表结构转换为默认的列配置，导入与按表生成共用
func columnsFromTable(infos []ColumnInfo) []Column {
	cols := make([]Column, 0, len(infos))
	for i, info := range infos {
		c := Column{
			Name:       info.ColumnName,
			Comment:    info.ColumnComment,
			Type:       info.DataType,
			GoType:     goType(info.DataType, info.IsNullable),
			TSType:     tsType(info.DataType),
			Sort:       i + 1,
			IsPK:       info.IsPK,
			IsNullable: info.IsNullable,
			IsList:     true,
			IsForm:     !info.IsPK,
			QueryType:  "eq",
			FormType:   "input",
		}
		if c.IsPK {
			c.GoType = "int64"
		}
		base := strings.TrimPrefix(c.GoType, "*")
		c.IsQuery = !c.IsPK && base != "time.Time"
		if base == "string" {
			c.Length = info.Length
			c.QueryType = "like"
		}
		if base == "time.Time" {
			c.FormType = "datetime"
		}
		cols = append(cols, c)
	}
	return cols
}
