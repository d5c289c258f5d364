// Package codegen 扫描数据库表结构，维护代码生成业务模型，并按模板生成插件代码。
package codegen

import "github.com/eginner01/rFBA-sub002/internal/store"

// Business 对应 gen_business 表，一张数据库表至多一个业务
type Business struct {
	ID                    int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AppName               string  `gorm:"column:app_name;size:64;not null" json:"app_name"`
	Table                 string  `gorm:"column:table_name;size:256;not null" json:"table_name"`
	DocComment            string  `gorm:"column:doc_comment;size:256;not null" json:"doc_comment"`
	TableComment          *string `gorm:"column:table_comment;size:256" json:"table_comment"`
	ClassName             *string `gorm:"column:class_name;size:64" json:"class_name"`
	SchemaName            *string `gorm:"column:schema_name;size:64" json:"schema_name"`
	Filename              *string `gorm:"column:filename;size:64" json:"filename"`
	DefaultDatetimeColumn bool    `gorm:"column:default_datetime_column;not null" json:"default_datetime_column"`
	APIVersion            string  `gorm:"column:api_version;size:32;not null" json:"api_version"`
	GenPath               *string `gorm:"column:gen_path;size:256" json:"gen_path"`
	Remark                *string `gorm:"column:remark" json:"remark"`
	store.Mutable
}

func (Business) TableName() string { return "gen_business" }

// module 是生成代码的包名，缺省取表名
func (b *Business) module() string {
	if b.Filename != nil && *b.Filename != "" {
		return *b.Filename
	}
	return b.Table
}

// Column 对应 gen_column 表
type Column struct {
	ID         int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BusinessID int64   `gorm:"column:business_id;not null" json:"business_id"`
	Name       string  `gorm:"column:name;size:64;not null" json:"name"`
	Comment    *string `gorm:"column:comment;size:256" json:"comment"`
	Type       string  `gorm:"column:type;size:32;not null" json:"type"`
	GoType     string  `gorm:"column:go_type;size:32;not null" json:"go_type"`
	TSType     string  `gorm:"column:ts_type;size:32;not null" json:"ts_type"`
	Length     int     `gorm:"column:length;not null" json:"length"`
	Sort       int     `gorm:"column:sort;not null" json:"sort"`
	IsPK       bool    `gorm:"column:is_pk;not null" json:"is_pk"`
	IsNullable bool    `gorm:"column:is_nullable;not null" json:"is_nullable"`
	IsQuery    bool    `gorm:"column:is_query;not null" json:"is_query"`
	IsList     bool    `gorm:"column:is_list;not null" json:"is_list"`
	IsForm     bool    `gorm:"column:is_form;not null" json:"is_form"`
	QueryType  string  `gorm:"column:query_type;size:16;not null" json:"query_type"`
	FormType   string  `gorm:"column:form_type;size:16;not null" json:"form_type"`
	store.Mutable
}

func (Column) TableName() string { return "gen_column" }
