package codegen

import "github.com/eginner01/rFBA-sub002/internal/core/response"

// BusinessQuery 是业务分页过滤条件
type BusinessQuery struct {
	TableName string `form:"table_name"`
	response.PageQuery
}

// CreateBusinessParam 是创建业务的请求体
type CreateBusinessParam struct {
	AppName               string  `json:"app_name" validate:"min=1,max=64" msg:"应用名称长度必须在1-64之间"`
	TableName             string  `json:"table_name" validate:"min=1,max=256" msg:"表名长度必须在1-256之间"`
	DocComment            string  `json:"doc_comment" validate:"min=1,max=256" msg:"文档注释长度必须在1-256之间"`
	TableComment          *string `json:"table_comment" validate:"omitempty,max=256" msg:"表注释长度不能超过256"`
	ClassName             *string `json:"class_name" validate:"omitempty,max=64" msg:"类名长度不能超过64"`
	SchemaName            *string `json:"schema_name" validate:"omitempty,max=64" msg:"结构名长度不能超过64"`
	Filename              *string `json:"filename" validate:"omitempty,min=1,max=64,ident" msg:"文件名长度必须在1-64之间" msg_ident:"文件名只能包含字母、数字和下划线"`
	DefaultDatetimeColumn *bool   `json:"default_datetime_column"`
	APIVersion            *string `json:"api_version" validate:"omitempty,max=32" msg:"接口版本长度不能超过32"`
	GenPath               *string `json:"gen_path" validate:"omitempty,max=256" msg:"生成路径长度不能超过256"`
	Remark                *string `json:"remark"`
}

// UpdateBusinessParam 是更新业务的请求体，只修改出现的字段。表名创建后不可修改。
type UpdateBusinessParam struct {
	AppName               *string `json:"app_name" validate:"omitempty,min=1,max=64" msg:"应用名称长度必须在1-64之间"`
	DocComment            *string `json:"doc_comment" validate:"omitempty,min=1,max=256" msg:"文档注释长度必须在1-256之间"`
	TableComment          *string `json:"table_comment" validate:"omitempty,max=256" msg:"表注释长度不能超过256"`
	ClassName             *string `json:"class_name" validate:"omitempty,max=64" msg:"类名长度不能超过64"`
	SchemaName            *string `json:"schema_name" validate:"omitempty,max=64" msg:"结构名长度不能超过64"`
	Filename              *string `json:"filename" validate:"omitempty,min=1,max=64,ident" msg:"文件名长度必须在1-64之间" msg_ident:"文件名只能包含字母、数字和下划线"`
	DefaultDatetimeColumn *bool   `json:"default_datetime_column"`
	APIVersion            *string `json:"api_version" validate:"omitempty,max=32" msg:"接口版本长度不能超过32"`
	GenPath               *string `json:"gen_path" validate:"omitempty,max=256" msg:"生成路径长度不能超过256"`
	Remark                *string `json:"remark"`
}

func (p UpdateBusinessParam) values() map[string]any {
	v := map[string]any{}
	set := func(col string, s *string) {
		if s != nil {
			v[col] = *s
		}
	}
	set("app_name", p.AppName)
	set("doc_comment", p.DocComment)
	set("table_comment", p.TableComment)
	set("class_name", p.ClassName)
	set("schema_name", p.SchemaName)
	set("filename", p.Filename)
	set("api_version", p.APIVersion)
	set("gen_path", p.GenPath)
	set("remark", p.Remark)
	if p.DefaultDatetimeColumn != nil {
		v["default_datetime_column"] = *p.DefaultDatetimeColumn
	}
	return v
}

// ImportParam 从数据库表导入业务
type ImportParam struct {
	App       string `json:"app" validate:"min=1,max=64" msg:"应用名称长度必须在1-64之间"`
	TableName string `json:"table_name" validate:"min=1,max=256" msg:"表名长度必须在1-256之间"`
}

// CodeQuery 是预览与下载的参数
type CodeQuery struct {
	TableName  string `form:"table_name" validate:"required" msg:"缺少table_name参数"`
	ModuleName string `form:"module_name" validate:"required,ident" msg:"缺少module_name参数" msg_ident:"模块名只能包含字母、数字和下划线"`
}

// GenerateParam 是按表生成代码的请求体
type GenerateParam struct {
	TableName  string  `json:"table_name" validate:"min=1" msg:"缺少table_name参数"`
	ModuleName string  `json:"module_name" validate:"min=1,ident" msg:"缺少module_name参数" msg_ident:"模块名只能包含字母、数字和下划线"`
	Author     *string `json:"author"`
}

// TableInfo 描述一张数据库表
type TableInfo struct {
	TableName    string  `json:"table_name"`
	TableSchema  string  `json:"table_schema"`
	TableComment *string `json:"table_comment"`
}

// ColumnInfo 描述数据库表的一列
type ColumnInfo struct {
	ColumnName    string  `json:"column_name"`
	DataType      string  `json:"data_type"`
	ColumnType    string  `json:"column_type"`
	Length        int     `json:"length"`
	IsNullable    bool    `json:"is_nullable"`
	IsPK          bool    `json:"is_pk"`
	ColumnComment *string `json:"column_comment"`
}

// CodePreview 是生成结果，键为相对路径
type CodePreview struct {
	Files map[string]string `json:"files"`
}
