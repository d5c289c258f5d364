// file: internal/store/migrate/versions.go
package migrate

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 以下结构是各版本建表时的结构快照，独立于业务模型，发布后不再修改。

// StampV1 与 AppendV1 需要导出，gorm 只解析导出的内嵌结构
type StampV1 struct {
	CreatedTime time.Time  `gorm:"column:created_time;not null"`
	UpdatedTime *time.Time `gorm:"column:updated_time"`
}

type AppendV1 struct {
	CreatedTime time.Time `gorm:"column:created_time;not null;index"`
}

// ---- v1 RBAC ----

type deptV1 struct {
	ID       int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string  `gorm:"column:name;size:64;not null"`
	ParentID *int64  `gorm:"column:parent_id;index"`
	Sort     int     `gorm:"column:sort;not null;default:0"`
	Leader   *string `gorm:"column:leader;size:32"`
	Phone    *string `gorm:"column:phone;size:11"`
	Email    *string `gorm:"column:email;size:64"`
	Status   int     `gorm:"column:status;not null;default:1"`
	StampV1
	DeletedTime gorm.DeletedAt `gorm:"column:deleted_time;index"`
}

func (deptV1) TableName() string { return "sys_dept" }

type userV1 struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement"`
	UUID          string     `gorm:"column:uuid;size:64;not null;uniqueIndex"`
	Username      string     `gorm:"column:username;size:64;not null;uniqueIndex"`
	Nickname      string     `gorm:"column:nickname;size:64;not null"`
	Password      string     `gorm:"column:password;size:255;not null"`
	Email         *string    `gorm:"column:email;size:256"`
	Phone         *string    `gorm:"column:phone;size:11"`
	Avatar        *string    `gorm:"column:avatar;size:256"`
	Status        int        `gorm:"column:status;not null;default:1"`
	IsSuperuser   bool       `gorm:"column:is_superuser;not null;default:false"`
	IsStaff       bool       `gorm:"column:is_staff;not null;default:false"`
	IsMultiLogin  bool       `gorm:"column:is_multi_login;not null;default:false"`
	DeptID        *int64     `gorm:"column:dept_id;index"`
	JoinTime      time.Time  `gorm:"column:join_time;not null"`
	LastLoginTime *time.Time `gorm:"column:last_login_time"`
	StampV1
	DeletedTime gorm.DeletedAt `gorm:"column:deleted_time;index"`
}

func (userV1) TableName() string { return "sys_user" }

type roleV1 struct {
	ID     int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name   string  `gorm:"column:name;size:32;not null;uniqueIndex"`
	Status int     `gorm:"column:status;not null;default:1"`
	Remark *string `gorm:"column:remark"`
	StampV1
}

func (roleV1) TableName() string { return "sys_role" }

type userRoleV1 struct {
	ID     int64 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID int64 `gorm:"column:user_id;not null;uniqueIndex:uk_sys_user_role"`
	RoleID int64 `gorm:"column:role_id;not null;uniqueIndex:uk_sys_user_role;index"`
}

func (userRoleV1) TableName() string { return "sys_user_role" }

type rolePermissionV1 struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	RoleID     int64  `gorm:"column:role_id;not null;uniqueIndex:uk_sys_role_permission"`
	Permission string `gorm:"column:permission;size:128;not null;uniqueIndex:uk_sys_role_permission"`
}

func (rolePermissionV1) TableName() string { return "sys_role_permission" }

// ---- v2 通知公告 ----

type noticeV1 struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Title   string `gorm:"column:title;size:64;not null"`
	Type    int    `gorm:"column:type;not null"`
	Status  int    `gorm:"column:status;not null"`
	Content string `gorm:"column:content;not null"`
	StampV1
}

func (noticeV1) TableName() string { return "sys_notice" }

// ---- v3 参数配置 ----

type configV1 struct {
	ID         int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string  `gorm:"column:name;size:64;not null"`
	Type       *string `gorm:"column:type;size:32"`
	Key        string  `gorm:"column:key;size:64;not null;uniqueIndex"`
	Value      string  `gorm:"column:value;not null"`
	IsFrontend bool    `gorm:"column:is_frontend;not null;default:false"`
	Remark     *string `gorm:"column:remark"`
	StampV1
}

func (configV1) TableName() string { return "sys_config" }

// ---- v4 数据字典 ----

type dictTypeV1 struct {
	ID     int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name   string  `gorm:"column:name;size:32;not null"`
	Code   string  `gorm:"column:code;size:32;not null;uniqueIndex"`
	Status int     `gorm:"column:status;not null;default:1"`
	Remark *string `gorm:"column:remark"`
	StampV1
}

func (dictTypeV1) TableName() string { return "sys_dict_type" }

type dictDataV1 struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement"`
	TypeID    int64   `gorm:"column:type_id;not null;index"`
	TypeCode  string  `gorm:"column:type_code;size:32;not null;index"`
	Label     string  `gorm:"column:label;size:64;not null"`
	Value     string  `gorm:"column:value;size:64;not null"`
	Color     *string `gorm:"column:color;size:32"`
	Sort      int     `gorm:"column:sort;not null;default:0"`
	IsDefault string  `gorm:"column:is_default;size:1;not null;default:N"`
	Status    int     `gorm:"column:status;not null;default:1"`
	Remark    *string `gorm:"column:remark"`
	StampV1
}

func (dictDataV1) TableName() string { return "sys_dict_data" }

// ---- v5 审计日志 ----

type accessLogV1 struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TraceID      string    `gorm:"column:trace_id;size:64;not null;index"`
	UserID       *int64    `gorm:"column:user_id;index"`
	Username     *string   `gorm:"column:username;size:64"`
	DeptID       *int64    `gorm:"column:dept_id"`
	DeptName     *string   `gorm:"column:dept_name;size:64"`
	Method       string    `gorm:"column:method;size:16;not null"`
	Path         string    `gorm:"column:path;size:500;not null"`
	Query        string    `gorm:"column:query"`
	IP           string    `gorm:"column:ip;size:64;not null"`
	OS           string    `gorm:"column:os;size:64"`
	Browser      string    `gorm:"column:browser;size:64"`
	Device       string    `gorm:"column:device;size:64"`
	UserAgent    string    `gorm:"column:user_agent;size:512"`
	Referer      string    `gorm:"column:referer;size:512"`
	RequestBody  string    `gorm:"column:request_body"`
	ResponseBody string    `gorm:"column:response_body"`
	Status       int       `gorm:"column:status;not null"`
	Code         int       `gorm:"column:code;not null"`
	IsError      bool      `gorm:"column:is_error;not null;index"`
	ElapsedMs    float64   `gorm:"column:elapsed_ms;not null"`
	StartTime    time.Time `gorm:"column:start_time;not null"`
	AppendV1
}

func (accessLogV1) TableName() string { return "sys_access_log" }

type operaLogV1 struct {
	ID           int64          `gorm:"column:id;primaryKey;autoIncrement"`
	TraceID      string         `gorm:"column:trace_id;size:64;not null;index"`
	UserID       *int64         `gorm:"column:user_id"`
	Username     *string        `gorm:"column:username;size:64"`
	Title        string         `gorm:"column:title;size:255;not null"`
	BusinessType string         `gorm:"column:business_type;size:16;not null"`
	Method       string         `gorm:"column:method;size:16;not null"`
	Path         string         `gorm:"column:path;size:500;not null"`
	IP           string         `gorm:"column:ip;size:64;not null"`
	OS           string         `gorm:"column:os;size:64"`
	Browser      string         `gorm:"column:browser;size:64"`
	Device       string         `gorm:"column:device;size:64"`
	Args         datatypes.JSON `gorm:"column:args"`
	Status       int            `gorm:"column:status;not null"`
	Code         int            `gorm:"column:code;not null"`
	Msg          string         `gorm:"column:msg"`
	CostMs       float64        `gorm:"column:cost_ms;not null"`
	OperaTime    time.Time      `gorm:"column:opera_time;not null"`
	AppendV1
}

func (operaLogV1) TableName() string { return "sys_opera_log" }

type loginLogV1 struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserUUID  string    `gorm:"column:user_uuid;size:64"`
	Username  string    `gorm:"column:username;size:64;not null;index"`
	Status    int       `gorm:"column:status;not null"`
	IP        string    `gorm:"column:ip;size:64;not null"`
	OS        string    `gorm:"column:os;size:64"`
	Browser   string    `gorm:"column:browser;size:64"`
	Device    string    `gorm:"column:device;size:64"`
	Msg       string    `gorm:"column:msg"`
	LoginTime time.Time `gorm:"column:login_time;not null"`
	AppendV1
}

func (loginLogV1) TableName() string { return "sys_login_log" }

// ---- v6 邮件 ----

type emailRecordV1 struct {
	ID       int64      `gorm:"column:id;primaryKey;autoIncrement"`
	ToEmail  string     `gorm:"column:to_email;size:256;not null;index"`
	Subject  string     `gorm:"column:subject;size:256;not null"`
	Content  string     `gorm:"column:content;not null"`
	IsHTML   bool       `gorm:"column:is_html;not null;default:false"`
	Status   int        `gorm:"column:status;not null;default:0"`
	ErrorMsg *string    `gorm:"column:error_msg"`
	SendTime *time.Time `gorm:"column:send_time"`
	AppendV1
}

func (emailRecordV1) TableName() string { return "sys_email_record" }

// ---- v7 OAuth2 绑定 ----

type oauthBindV1 struct {
	ID             int64          `gorm:"column:id;primaryKey;autoIncrement"`
	UserID         int64          `gorm:"column:user_id;not null;index"`
	Provider       string         `gorm:"column:provider;size:50;not null;uniqueIndex:uk_oauth_provider_user"`
	ProviderUserID string         `gorm:"column:provider_user_id;size:255;not null;uniqueIndex:uk_oauth_provider_user"`
	AccessToken    string         `gorm:"column:access_token;size:500;not null"`
	RefreshToken   *string        `gorm:"column:refresh_token;size:500"`
	ExpiresAt      *time.Time     `gorm:"column:expires_at"`
	UserInfo       datatypes.JSON `gorm:"column:user_info"`
	StampV1
}

func (oauthBindV1) TableName() string { return "sys_oauth_user_bind" }

// ---- v8 代码生成 ----

type genBusinessV1 struct {
	ID                    int64   `gorm:"column:id;primaryKey;autoIncrement"`
	AppName               string  `gorm:"column:app_name;size:64;not null"`
	Table                 string  `gorm:"column:table_name;size:256;not null;uniqueIndex"`
	DocComment            string  `gorm:"column:doc_comment;size:256;not null"`
	TableComment          *string `gorm:"column:table_comment;size:256"`
	ClassName             *string `gorm:"column:class_name;size:64"`
	SchemaName            *string `gorm:"column:schema_name;size:64"`
	Filename              *string `gorm:"column:filename;size:64"`
	DefaultDatetimeColumn bool    `gorm:"column:default_datetime_column;not null;default:true"`
	APIVersion            string  `gorm:"column:api_version;size:32;not null;default:v1"`
	GenPath               *string `gorm:"column:gen_path;size:256"`
	Remark                *string `gorm:"column:remark"`
	StampV1
}

func (genBusinessV1) TableName() string { return "gen_business" }

type genColumnV1 struct {
	ID            int64   `gorm:"column:id;primaryKey;autoIncrement"`
	BusinessID    int64   `gorm:"column:business_id;not null;index"`
	Name          string  `gorm:"column:name;size:64;not null"`
	Comment       *string `gorm:"column:comment;size:256"`
	Type          string  `gorm:"column:type;size:32;not null"`
	GoType        string  `gorm:"column:go_type;size:32;not null"`
	TSType        string  `gorm:"column:ts_type;size:32;not null"`
	Length        int     `gorm:"column:length;not null;default:0"`
	Sort          int     `gorm:"column:sort;not null;default:1"`
	IsPK          bool    `gorm:"column:is_pk;not null;default:false"`
	IsNullable    bool    `gorm:"column:is_nullable;not null;default:false"`
	IsQuery       bool    `gorm:"column:is_query;not null;default:false"`
	IsList        bool    `gorm:"column:is_list;not null;default:true"`
	IsForm        bool    `gorm:"column:is_form;not null;default:true"`
	QueryType     string  `gorm:"column:query_type;size:16;not null;default:eq"`
	FormType      string  `gorm:"column:form_type;size:16;not null;default:input"`
	StampV1
}

func (genColumnV1) TableName() string { return "gen_column" }

// ---- v9 文件 ----

type fileInfoV1 struct {
	ID               int64   `gorm:"column:id;primaryKey;autoIncrement"`
	FileName         string  `gorm:"column:file_name;size:255;not null"`
	OriginalName     string  `gorm:"column:original_name;size:255;not null"`
	FileSuffix       string  `gorm:"column:file_suffix;size:20;not null;index"`
	FileSize         int64   `gorm:"column:file_size;not null;default:0"`
	ContentType      string  `gorm:"column:content_type;size:100;not null"`
	FilePath         string  `gorm:"column:file_path;size:500;not null"`
	StorageType      int     `gorm:"column:storage_type;not null;default:1"`
	FileHash         *string `gorm:"column:file_hash;size:64;index"`
	Uploader         string  `gorm:"column:uploader;size:100;not null"`
	AccessPermission int     `gorm:"column:access_permission;not null;default:1"`
	DownloadCount    int64   `gorm:"column:download_count;not null;default:0"`
	Remark           *string `gorm:"column:remark"`
	StampV1
	DeletedTime gorm.DeletedAt `gorm:"column:deleted_time;index"`
}

func (fileInfoV1) TableName() string { return "sys_file_info" }

// ---- v10 定时任务 ----

type scheduleJobV1 struct {
	ID             int64   `gorm:"column:id;primaryKey;autoIncrement"`
	JobName        string  `gorm:"column:job_name;size:64;not null;uniqueIndex:uk_sys_schedule_job"`
	JobGroup       string  `gorm:"column:job_group;size:64;not null;default:DEFAULT;uniqueIndex:uk_sys_schedule_job"`
	BeanName       string  `gorm:"column:bean_name;size:128;not null"`
	MethodName     string  `gorm:"column:method_name;size:64;not null"`
	MethodParams   *string `gorm:"column:method_params"`
	CronExpression string  `gorm:"column:cron_expression;size:128;not null"`
	MisfirePolicy  int     `gorm:"column:misfire_policy;not null;default:0"`
	Concurrent     int     `gorm:"column:concurrent;not null;default:1"`
	Status         int     `gorm:"column:status;not null;default:0;index"`
	Priority       int     `gorm:"column:priority;not null;default:5"`
	Timeout        int     `gorm:"column:timeout;not null;default:0"`
	RetryCount     int     `gorm:"column:retry_count;not null;default:0"`
	RetryInterval  int     `gorm:"column:retry_interval;not null;default:0"`
	Description    *string `gorm:"column:description"`
	CreateBy       *string `gorm:"column:create_by;size:64"`
	UpdateBy       *string `gorm:"column:update_by;size:64"`
	StampV1
}

func (scheduleJobV1) TableName() string { return "sys_schedule_job" }

// All 是全部迁移，只能在末尾追加
var All = []Migration{
	{Version: 1, Name: "create_rbac_tables", Up: func(tx *gorm.DB) error {
		return createTables(tx, &deptV1{}, &userV1{}, &roleV1{}, &userRoleV1{}, &rolePermissionV1{})
	}},
	{Version: 2, Name: "create_sys_notice", Up: func(tx *gorm.DB) error {
		return createTables(tx, &noticeV1{})
	}},
	{Version: 3, Name: "create_sys_config", Up: func(tx *gorm.DB) error {
		return createTables(tx, &configV1{})
	}},
	{Version: 4, Name: "create_dict_tables", Up: func(tx *gorm.DB) error {
		return createTables(tx, &dictTypeV1{}, &dictDataV1{})
	}},
	{Version: 5, Name: "create_audit_log_tables", Up: func(tx *gorm.DB) error {
		return createTables(tx, &accessLogV1{}, &operaLogV1{}, &loginLogV1{})
	}},
	{Version: 6, Name: "create_sys_email_record", Up: func(tx *gorm.DB) error {
		return createTables(tx, &emailRecordV1{})
	}},
	{Version: 7, Name: "create_sys_oauth_user_bind", Up: func(tx *gorm.DB) error {
		return createTables(tx, &oauthBindV1{})
	}},
	{Version: 8, Name: "create_codegen_tables", Up: func(tx *gorm.DB) error {
		return createTables(tx, &genBusinessV1{}, &genColumnV1{})
	}},
	{Version: 9, Name: "create_sys_file_info", Up: func(tx *gorm.DB) error {
		return createTables(tx, &fileInfoV1{})
	}},
	{Version: 10, Name: "create_sys_schedule_job", Up: func(tx *gorm.DB) error {
		return createTables(tx, &scheduleJobV1{})
	}},
}
