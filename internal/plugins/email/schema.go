package email

import "github.com/eginner01/rFBA-sub002/internal/core/response"

// SendParam 是发送邮件的请求体
type SendParam struct {
	To      string `json:"to" validate:"email" msg:"收件人邮箱格式不正确"`
	Subject string `json:"subject" validate:"min=1,max=255" msg:"主题长度必须在1-255之间"`
	Content string `json:"content" validate:"min=1,max=100000" msg:"内容长度必须在1-100000之间"`
	IsHTML  bool   `json:"is_html"`
}

// TemplateParam 用 plugin/email/templates/<template>.html 渲染正文
type TemplateParam struct {
	To       string            `json:"to" validate:"email" msg:"收件人邮箱格式不正确"`
	Template string            `json:"template" validate:"min=1,max=50,ident" msg:"模板名称长度必须在1-50之间" msg_ident:"模板名称只能包含字母、数字和下划线"`
	Data     map[string]string `json:"data"`
}

// TestSMTPParam 用给定的服务器向 test_to 发送一封测试邮件
type TestSMTPParam struct {
	Host     string `json:"host" validate:"min=1,max=255" msg:"SMTP服务器不能为空"`
	Port     int    `json:"port" validate:"min=1,max=65535" msg:"端口必须在1-65535之间"`
	Username string `json:"username" validate:"min=1,max=255" msg:"用户名不能为空"`
	Password string `json:"password" validate:"min=1,max=255" msg:"密码不能为空"`
	SSL      bool   `json:"ssl"`
	TestTo   string `json:"test_to" validate:"email" msg:"测试收件人邮箱格式不正确"`
}

// RecordQuery 过滤发送记录
type RecordQuery struct {
	ToEmail string `form:"to_email"`
	Status  *int   `form:"status" validate:"omitempty,oneof=0 1 2" msg:"发送状态必须是0、1或2"`
	response.PageQuery
}
